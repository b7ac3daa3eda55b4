package observability_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrJamesThe3rd/dealdesk/internal/observability"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()

	a.IncrTransition("won")
	a.IncrTransition("won")
	b.IncrTransition("won")

	expectedA := `
# HELP dealdesk_stage_transitions_total Stage transitions by kind (change, won, lost, reopen).
# TYPE dealdesk_stage_transitions_total counter
dealdesk_stage_transitions_total{kind="won"} 2
`
	expectedB := `
# HELP dealdesk_stage_transitions_total Stage transitions by kind (change, won, lost, reopen).
# TYPE dealdesk_stage_transitions_total counter
dealdesk_stage_transitions_total{kind="won"} 1
`

	require.NoError(t, testutil.GatherAndCompare(a.Registry, strings.NewReader(expectedA), "dealdesk_stage_transitions_total"))
	require.NoError(t, testutil.GatherAndCompare(b.Registry, strings.NewReader(expectedB), "dealdesk_stage_transitions_total"))
}

func TestMetrics_RecordOperation(t *testing.T) {
	m := observability.NewMetrics()
	m.RecordOperation("change_stage", 15*time.Millisecond)
	m.IncrSideEffectFailure("audit")
	m.IncrCacheHit("stages")
	m.IncrCacheMiss("stages")

	count, err := testutil.GatherAndCount(m.Registry)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestMetrics_OperationHistogramLabels(t *testing.T) {
	m := observability.NewMetrics()
	m.RecordOperation("close_won", 40*time.Millisecond)
	m.RecordOperation("close_won", 60*time.Millisecond)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	var histogram *dto.Histogram

	for _, f := range families {
		if f.GetName() != "dealdesk_operation_duration_seconds" {
			continue
		}

		require.Len(t, f.GetMetric(), 1)
		require.Equal(t, "close_won", f.GetMetric()[0].GetLabel()[0].GetValue())
		histogram = f.GetMetric()[0].GetHistogram()
	}

	require.NotNil(t, histogram)
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
	assert.InDelta(t, 0.1, histogram.GetSampleSum(), 1e-9)
}

func TestZapLoggerMiddleware_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := observability.ZapLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/opportunities", nil))

	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, int64(http.StatusUnprocessableEntity), entry.ContextMap()["status"])
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := observability.NewLogger("chatty")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")

	logger, err := observability.NewLogger("info", path)
	require.NoError(t, err)

	logger.Info("stage changed", zap.String("opportunity_id", "42"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"opportunity_id":"42"`)
}
