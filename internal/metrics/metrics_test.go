package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.Upload("accepted")
	m.Upload("accepted")
	m.Query("ok", 200*time.Millisecond)
	m.Job("failed")
	m.ChunksIndexed(7)
	m.ProviderError("llm", errors.New("429 rate limited"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("accepted")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.chunksIndexed))
	require.Equal(t, 1.0, testutil.ToFloat64(m.providerErrors.WithLabelValues("llm", "rate")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "querybot_jobs_total{status=\"failed\"} 1"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Upload("accepted")
	m.Query("error", time.Second)
	m.Job("ok")
	m.ChunksIndexed(3)
	m.ProviderError("embed", errors.New("x"))
}
