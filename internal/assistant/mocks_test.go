package assistant

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractIntent(ctx context.Context, utterance string) (Intent, error) {
	args := m.Called(ctx, utterance)
	return args.Get(0).(Intent), args.Error(1)
}

type MockChatter struct {
	mock.Mock
}

func (m *MockChatter) Chat(ctx context.Context, utterance string, snapshot BasketSnapshot) (string, error) {
	args := m.Called(ctx, utterance, snapshot)
	return args.String(0), args.Error(1)
}

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, profile string) ([]Recommendation, error) {
	args := m.Called(ctx, profile)
	recs, _ := args.Get(0).([]Recommendation)
	return recs, args.Error(1)
}

type MockSpeech struct {
	mock.Mock
}

func (m *MockSpeech) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockSpeech) ListenOnce(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
