package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/metrics"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHooks_RecordEngineEvents(t *testing.T) {
	m := metrics.New()
	engine := intake.New(intake.WithLifecycleHooks(m.Hooks(nil)))
	ctx := context.Background()

	state, _ := engine.Start(ctx, "m1", nil)
	for _, answer := range []string{"no", "yes", "Texas!"} {
		var err error
		state, _, err = engine.Navigate(ctx, state, answer)
		require.NoError(t, err)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `civicscribe_step_visits_total{step="consent"} 1`)
	assert.Contains(t, body, `civicscribe_step_visits_total{step="state"} 1`)
	assert.Contains(t, body, `civicscribe_answer_rejections_total{step="consent"} 1`)
	assert.Contains(t, body, `civicscribe_answer_rejections_total{step="state"} 1`)
	assert.Contains(t, body, "civicscribe_applications_finalized_total 0")
}

func TestHooks_Finalize(t *testing.T) {
	m := metrics.New()
	engine := intake.New(intake.WithLifecycleHooks(m.Hooks(nil)), intake.WithEntryStep(domain.StepReviewConfirm))
	ctx := context.Background()

	state, _ := engine.Start(ctx, "m2", nil)
	state, _, err := engine.Navigate(ctx, state, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.StatusFinalized, state.Status)

	assert.Contains(t, scrape(t, m), "civicscribe_applications_finalized_total 1")
}

func TestObserveTurn(t *testing.T) {
	m := metrics.New()
	m.ObserveTurn("http", 20*time.Millisecond)
	m.ObserveTurn("http", 30*time.Millisecond)
	m.ObserveTurn("mcp", time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "civicscribe_turn_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per transport")
	assert.Contains(t, scrape(t, m), `civicscribe_turn_duration_seconds_count{transport="http"} 2`)
}
