package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *harness) {
	t.Helper()
	h := newHarness(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]SessionOption{WithClock(func() time.Time { return fixed })}, opts...)
	return NewSession(h.interp, h.target, opts...), h
}

func TestSession_StartsWithGreeting(t *testing.T) {
	s, _ := newTestSession(t)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, s.Busy())
}

func TestSession_SendRecordsTranscript(t *testing.T) {
	s, h := newTestSession(t)
	h.extractor.On("ExtractIntent", mock.Anything, "Add 2 Jollof Rice").Return(Intent{
		Orders:  []OrderLine{{Item: "Jollof Rice", Quantity: 2}},
		IsOrder: true,
	}, nil)

	_, err := s.Send(context.Background(), "  Add 2 Jollof Rice ")
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Role: RoleUser, Text: "Add 2 Jollof Rice", At: msgs[1].At}, msgs[1])
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.Contains(t, msgs[2].Text, "2x Smoky Party Jollof Rice")
	assert.False(t, s.Busy())
}

func TestSession_EmptyUtteranceChangesNothing(t *testing.T) {
	s, h := newTestSession(t)

	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyUtterance)
	assert.Len(t, s.Messages(), 1)
	h.extractor.AssertNotCalled(t, "ExtractIntent", mock.Anything, mock.Anything)
}

func TestSession_ExtractionFailureClearsBusy(t *testing.T) {
	s, h := newTestSession(t)
	h.extractor.On("ExtractIntent", mock.Anything, "hi").Return(Intent{}, errors.New("boom"))

	_, err := s.Send(context.Background(), "hi")
	require.NoError(t, err)

	assert.False(t, s.Busy())
	msgs := s.Messages()
	assert.Equal(t, ExtractionApology, msgs[len(msgs)-1].Text)
}

func TestSession_BusyWhileExtracting(t *testing.T) {
	s, h := newTestSession(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.extractor.On("ExtractIntent", mock.Anything, "slow").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(Intent{IsCheckoutIntent: true}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Send(context.Background(), "slow")
	}()

	<-started
	assert.True(t, s.Busy())
	close(release)
	<-done
	assert.False(t, s.Busy())
}

func TestSession_SerializesUtterances(t *testing.T) {
	s, h := newTestSession(t)

	var mu sync.Mutex
	active, maxActive := 0, 0
	h.extractor.On("ExtractIntent", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}).
		Return(Intent{Orders: []OrderLine{{Item: "Suya", Quantity: 1}}, IsOrder: true}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Send(context.Background(), "one suya")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
	assert.Equal(t, 8, h.basket.Quantity("ng-5"))
	// each user message is directly followed by its reply
	msgs := s.Messages()
	require.Len(t, msgs, 17)
	for i := 1; i < len(msgs); i += 2 {
		assert.Equal(t, RoleUser, msgs[i].Role)
		assert.Equal(t, RoleAssistant, msgs[i+1].Role)
	}
}

func TestSession_SendVoice(t *testing.T) {
	s, h := newTestSession(t)
	h.extractor.On("ExtractIntent", mock.Anything, "Add 1 Suya").Return(Intent{
		Orders:  []OrderLine{{Item: "Suya", Quantity: 1}},
		IsOrder: true,
	}, nil)

	_, err := s.SendVoice(context.Background(), Transcript("Add 1 Suya"))
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "[Voice] Add 1 Suya", msgs[1].Text)
	assert.Equal(t, 1, h.basket.Quantity("ng-5"))
}

func TestSession_SpeechUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		speech func() Speech
	}{
		{name: "nil capability", speech: func() Speech { return nil }},
		{name: "empty transcript", speech: func() Speech { return Transcript("") }},
		{name: "listen error", speech: func() Speech {
			sp := new(MockSpeech)
			sp.On("Available").Return(true)
			sp.On("ListenOnce", mock.Anything).Return("", errors.New("microphone denied"))
			return sp
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := newTestSession(t)

			out, err := s.SendVoice(context.Background(), tt.speech())
			require.NoError(t, err)

			assert.Equal(t, []string{SpeechUnavailableNotice}, out.Replies)
			msgs := s.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, SpeechUnavailableNotice, msgs[1].Text)
			assert.False(t, s.Busy())
			h.extractor.AssertNotCalled(t, "ExtractIntent", mock.Anything, mock.Anything)
		})
	}
}

func TestSession_SubscribeReceivesMessages(t *testing.T) {
	s, h := newTestSession(t)
	h.extractor.On("ExtractIntent", mock.Anything, "checkout").Return(Intent{IsCheckoutIntent: true}, nil)

	events, cancel := s.Subscribe(8)
	defer cancel()

	_, err := s.Send(context.Background(), "checkout")
	require.NoError(t, err)

	first := <-events
	second := <-events
	assert.Equal(t, EventMessage, first.Type)
	assert.Equal(t, "checkout", first.Message.Text)
	assert.Equal(t, EmptyBasketNotice, second.Message.Text)

	s.Notify(Event{Type: EventCheckout, Data: "receipt"})
	ev := <-events
	assert.Equal(t, EventCheckout, ev.Type)
}

func TestSession_CancelClosesChannel(t *testing.T) {
	s, _ := newTestSession(t)

	events, cancel := s.Subscribe(1)
	cancel()
	cancel()

	_, ok := <-events
	assert.False(t, ok)
	// no subscribers left to block on
	s.Notify(Event{Type: EventCheckout})
}

func TestSession_CloseEndsSubscriptions(t *testing.T) {
	s, _ := newTestSession(t)

	first, cancelFirst := s.Subscribe(1)
	second, _ := s.Subscribe(1)
	s.Close()
	s.Close()

	_, ok := <-first
	assert.False(t, ok)
	_, ok = <-second
	assert.False(t, ok)
	// cancelling after close must not close the channel twice
	cancelFirst()

	late, cancelLate := s.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
	cancelLate()
	s.Notify(Event{Type: EventCheckout})
}

func TestSession_Recommendations(t *testing.T) {
	rec := new(MockRecommender)
	want := []Recommendation{{Dish: "Ofada Rice & Sauce", Description: "Spicy", Reason: "You like heat"}}
	rec.On("Recommend", mock.Anything, "spicy").Return(nil, errors.New("quota")).Once()
	rec.On("Recommend", mock.Anything, "spicy").Return(want, nil).Once()

	s, _ := newTestSession(t, WithRecommender(rec, "spicy"))

	assert.Nil(t, s.Recommendations(context.Background()))
	assert.Equal(t, want, s.Recommendations(context.Background()))
	// cached after the first success
	assert.Equal(t, want, s.Recommendations(context.Background()))
	rec.AssertNumberOfCalls(t, "Recommend", 2)
}

func TestSession_NoRecommender(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Nil(t, s.Recommendations(context.Background()))
}
