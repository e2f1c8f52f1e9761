package metrics

import "github.com/DukeRupert/poolcheck/internal/compliance"

// EvaluationCompleted records the verdict of one evaluation and a
// violation count for each out-of-range parameter.
func EvaluationCompleted(e compliance.Evaluation) {
	WaterTestsEvaluated.WithLabelValues(e.Overall.String()).Inc()
	for name, r := range e.Results {
		if r.Status == compliance.StatusViolation {
			ParameterViolations.WithLabelValues(name).Inc()
		}
	}
}

// WaterTestRecorded records a persisted water test.
func WaterTestRecorded() {
	WaterTestsRecorded.Inc()
}
