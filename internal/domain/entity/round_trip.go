package entity

type RoundTripState string

const (
	StateStart                 RoundTripState = "start"
	StateAwaitingFirstResponse RoundTripState = "awaiting-first-response"
	StateExecutingTools        RoundTripState = "executing-tools"
	StateAwaitingFinalResponse RoundTripState = "awaiting-final-response"
	StateComplete              RoundTripState = "complete"
	StateErrored               RoundTripState = "errored"
)

func (s RoundTripState) Terminal() bool {
	return s == StateComplete || s == StateErrored
}

// RoundTripResult describes a finished round trip. Messages is the history
// sent with the final request; Content is the raw final answer that passed
// schema validation.
type RoundTripResult struct {
	ID          string
	State       RoundTripState
	Messages    []Message
	Invocations []ToolInvocation
	Final       Message
	Content     string
}
