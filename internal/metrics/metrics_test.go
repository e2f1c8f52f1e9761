package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/poolcheck/internal/compliance"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/water-tests/{id}", normalizePath("/api/water-tests/550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "/api/compliance/standards", normalizePath("/api/compliance/standards"))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/units/{unitID}/water-tests", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/units/{unitID}/water-tests", "418")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/api/units/550e8400-e29b-41d4-a716-446655440000/water-tests", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMiddleware_UnmatchedFallsBackToNormalizedPath(t *testing.T) {
	h := Middleware(http.NotFoundHandler())

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/nope/{id}", "404")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/nope/550e8400-e29b-41d4-a716-446655440000", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, before, testutil.ToFloat64(counter))
}

func TestEvaluationCompleted(t *testing.T) {
	evaluation := compliance.Evaluate(compliance.Params{
		PH:        compliance.Float(8.2),
		Turbidity: compliance.Float(0.1),
	}, "main_pool", "chlorine")

	verdicts := WaterTestsEvaluated.WithLabelValues("violation")
	ph := ParameterViolations.WithLabelValues("ph")
	turbidity := ParameterViolations.WithLabelValues("turbidity")
	beforeVerdicts := testutil.ToFloat64(verdicts)
	beforePH := testutil.ToFloat64(ph)
	beforeTurbidity := testutil.ToFloat64(turbidity)

	EvaluationCompleted(evaluation)

	assert.Equal(t, beforeVerdicts+1, testutil.ToFloat64(verdicts))
	assert.Equal(t, beforePH+1, testutil.ToFloat64(ph))
	assert.Equal(t, beforeTurbidity, testutil.ToFloat64(turbidity))
}
