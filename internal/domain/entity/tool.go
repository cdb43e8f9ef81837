package entity

type ToolName string

const (
	ToolGetWeather ToolName = "get_weather"
)

func (t ToolName) String() string {
	return string(t)
}

// ToolCallCorrelation selects how tool results are matched to tool calls.
type ToolCallCorrelation string

const (
	// CorrelateByID tags every tool message with the id of the call it answers.
	CorrelateByID ToolCallCorrelation = "id"
	// CorrelateByPosition sends tool messages without ids; the backend pairs
	// them with calls by order.
	CorrelateByPosition ToolCallCorrelation = "none"
)

func (c ToolCallCorrelation) Valid() bool {
	return c == CorrelateByID || c == CorrelateByPosition
}

// ToolInvocation records one executed tool call and its serialized result.
type ToolInvocation struct {
	Call   ToolCall
	Result string
}
