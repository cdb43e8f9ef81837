package output

import "time"

// LLM call phases reported to MetricsPort.
const (
	PhaseSingle = "single"
	PhaseFirst  = "first"
	PhaseFinal  = "final"
)

type MetricsPort interface {
	ObserveLLMCall(phase string, duration time.Duration, err error)
	ObserveToolCall(tool string, duration time.Duration, err error)
	ObserveRoundTrip(state string, duration time.Duration)
}

type NopMetrics struct{}

func (NopMetrics) ObserveLLMCall(string, time.Duration, error)  {}
func (NopMetrics) ObserveToolCall(string, time.Duration, error) {}
func (NopMetrics) ObserveRoundTrip(string, time.Duration)       {}
