package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.RecordUtterance("order")
	c.RecordUtterance("order")
	c.RecordUtterance("chat")
	c.RecordBasketOp("add", 3)
	c.RecordBasketOp("add", 0)
	c.RecordCheckout()
	c.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.utterances.WithLabelValues("order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.utterances.WithLabelValues("chat")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.basketOps.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.checkouts))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.activeSessions))
}

func TestCollector_LLMLatency(t *testing.T) {
	c := NewCollector()

	c.ObserveLLMCall("extract", 200*time.Millisecond, nil)
	c.ObserveLLMCall("extract", time.Second, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(c.llmLatency))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordUtterance("order")
		c.RecordIntent("order")
		c.RecordBasketOp("add", 1)
		c.RecordCheckout()
		c.ObserveLLMCall("chat", time.Second, nil)
		c.SetActiveSessions(1)
	})
	assert.Zero(t, c.Uptime())
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordCheckout()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	c.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "olif_checkouts_total 1")
}
