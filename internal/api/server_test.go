package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"olif/internal/assistant"
	"olif/internal/catalog"
	"olif/internal/evaluation"
	"olif/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordExtractor recognises a few fixed phrases
type keywordExtractor struct{}

func (keywordExtractor) ExtractIntent(ctx context.Context, utterance string) (assistant.Intent, error) {
	in := assistant.Intent{}
	lower := strings.ToLower(utterance)
	if strings.Contains(lower, "jollof") {
		in.Orders = append(in.Orders, assistant.OrderLine{Item: "Jollof Rice", Quantity: 2})
	}
	if strings.Contains(lower, "checkout") {
		in.IsCheckoutIntent = true
	}
	return in.Normalize(), nil
}

type echoChatter struct{}

func (echoChatter) Chat(ctx context.Context, utterance string, snapshot assistant.BasketSnapshot) (string, error) {
	return "You said: " + utterance, nil
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type testServer struct {
	t        *testing.T
	server   *Server
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New(catalog.Restaurants)
	require.NoError(t, err)
	sessions := session.NewManager(session.Config{
		Catalog:       cat,
		Extractor:     keywordExtractor{},
		Chatter:       echoChatter{},
		CheckoutDelay: time.Millisecond,
		Secret:        "test-secret",
		Scheduler:     func(time.Duration, func()) {},
	})
	server := NewServer(Options{
		Catalog:   cat,
		Sessions:  sessions,
		Evaluator: evaluation.NewEvaluator(cat, evaluation.NewMetricsCollector(prometheus.NewRegistry())),
		Extractor: keywordExtractor{},
		ModelName: "keyword",
	})
	return &testServer{t: t, server: server, sessions: sessions}
}

func (ts *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (ts *testServer) newSession() string {
	ts.t.Helper()
	w, env := ts.do("POST", "/api/v1/sessions", "", nil)
	require.Equal(ts.t, http.StatusCreated, w.Code)
	var resp sessionResponse
	require.NoError(ts.t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(ts.t, resp.Token)
	require.Len(ts.t, resp.Messages, 1)
	assert.Equal(ts.t, assistant.Greeting, resp.Messages[0].Text)
	return resp.Token
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListModels(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do("GET", "/api/v1/models", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Active    string   `json:"active"`
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "keyword", body.Active)
	assert.Contains(t, body.Providers, "gemini")
	assert.Contains(t, body.Providers, "azure")
}

func TestRestaurants(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do("GET", "/api/v1/restaurants?category=Healthy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.NotEmpty(t, list)
	for _, r := range list {
		assert.Contains(t, r["categories"], "Healthy")
	}

	w, env = ts.do("GET", "/api/v1/restaurants?q=suya", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "res-suya", list[0]["id"])

	w, env = ts.do("GET", "/api/v1/restaurants?category=Sushi", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.OK)

	w, _ = ts.do("GET", "/api/v1/restaurants/res-1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do("GET", "/api/v1/restaurants/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do("GET", "/api/v1/basket", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.OK)

	w, _ = ts.do("GET", "/api/v1/basket", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := ts.newSession()
	w, _ = ts.do("DELETE", "/api/v1/sessions/current", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = ts.do("GET", "/api/v1/basket", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "session expired", env.Error)
}

func TestBasketFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newSession()

	w, _ := ts.do("POST", "/api/v1/basket/items", token, addItemRequest{ItemID: "ng-1"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do("POST", "/api/v1/basket/items", token, addItemRequest{ItemID: "ng-1", RestaurantID: "res-1"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env := ts.do("POST", "/api/v1/basket/items", token, addItemRequest{ItemID: "ng-5"})
	require.Equal(t, http.StatusOK, w.Code)

	var basket struct {
		Count  int `json:"count"`
		Totals struct {
			Subtotal int64 `json:"subtotal"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &basket))
	assert.Equal(t, 3, basket.Count)
	assert.Equal(t, int64(14500), basket.Totals.Subtotal)

	delta := -5
	w, env = ts.do("PATCH", "/api/v1/basket/items/ng-1", token, updateQuantityRequest{Delta: &delta})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &basket))
	assert.Equal(t, 1, basket.Count)

	w, _ = ts.do("PATCH", "/api/v1/basket/items/ng-5", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do("POST", "/api/v1/basket/items", token, addItemRequest{ItemID: "ng-1", RestaurantID: "res-suya"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = ts.do("POST", "/api/v1/basket/items", token, addItemRequest{ItemID: "ng-404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = ts.do("POST", "/api/v1/basket/checkout", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var receipt struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	// 3500 + 1500 delivery + 175 tax
	assert.Equal(t, int64(5175), receipt.Total)

	w, env = ts.do("GET", "/api/v1/view", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"view":"checkout-success"`)

	w, env = ts.do("POST", "/api/v1/basket/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "basket is empty", env.Error)
}

func TestViewRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newSession()

	w, _ := ts.do("PUT", "/api/v1/view", token, navigateRequest{View: "restaurant-detail"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do("POST", "/api/v1/view/restaurant/res-delta", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do("POST", "/api/v1/view/restaurant/res-nope", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := ts.do("PUT", "/api/v1/view/role", token, roleRequest{Role: "rider"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"role":"Rider"`)

	w, _ = ts.do("PUT", "/api/v1/view", token, navigateRequest{View: "nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	open := true
	w, env = ts.do("PUT", "/api/v1/view/panels", token, panelsRequest{AssistantOpen: &open})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"assistantOpen":true`)
}

func TestAssistantRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newSession()

	w, env := ts.do("POST", "/api/v1/assistant/messages", token, messageRequest{Text: "Add 2 jollof please"})
	require.Equal(t, http.StatusOK, w.Code)
	var turn struct {
		Outcome  assistant.Outcome   `json:"outcome"`
		Messages []assistant.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &turn))
	require.Len(t, turn.Outcome.Added, 1)
	assert.Equal(t, "ng-1", turn.Outcome.Added[0].Item.ID)
	assert.Len(t, turn.Messages, 3)

	w, env = ts.do("POST", "/api/v1/assistant/messages", token, messageRequest{Text: "what is good today?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "You said: what is good today?")

	w, _ = ts.do("POST", "/api/v1/assistant/messages", token, messageRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = ts.do("POST", "/api/v1/assistant/voice", token, voiceRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), assistant.SpeechUnavailableNotice)

	w, env = ts.do("POST", "/api/v1/assistant/voice", token, voiceRequest{Transcript: "checkout"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "[Voice] checkout")
	assert.Contains(t, string(env.Data), `"checkoutScheduled":true`)

	w, env = ts.do("GET", "/api/v1/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestEvaluate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newSession()

	w, env := ts.do("POST", "/api/v1/evaluate", token, evaluateRequest{Scenario: "single_item"})
	require.Equal(t, http.StatusOK, w.Code)
	var result evaluation.EvaluationResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "keyword", result.Model)
	assert.Equal(t, 1.0, result.Metrics[evaluation.MetricOverall])

	w, _ = ts.do("POST", "/api/v1/evaluate", token, evaluateRequest{Scenario: "busy_night"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = ts.do("POST", "/api/v1/evaluate", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"summary"`)
}

func TestWebSocketStreamsReplies(t *testing.T) {
	ts := newTestServer(t)
	token := ts.newSession()

	srv := httptest.NewServer(ts.server)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/assistant/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"two jollof"}`)))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frames []wsFrame
	for len(frames) < 2 {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
	}
	assert.Equal(t, "message", frames[0].Type)
	assert.Equal(t, "two jollof", frames[0].Message.Text)
	assert.Contains(t, frames[1].Message.Text, "2x Smoky Party Jollof Rice")
}
