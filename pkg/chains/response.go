package chains

// Kind discriminates a Response.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Response is the composed answer for one query. Error is set only when
// Kind is KindError; ChainUsed and Strategy only when it is KindSuccess.
type Response struct {
	Kind           Kind     `json:"-"`
	Summary        string   `json:"summary"`
	Query          string   `json:"query"`
	Error          string   `json:"error,omitempty"`
	ToolsAvailable []string `json:"tools_available"`
	ToolsUsed      []string `json:"tools_used"`
	ChainUsed      string   `json:"chain_used,omitempty"`
	Strategy       Strategy `json:"strategy,omitempty"`
}

// OK reports whether the response carries an answer.
func (r Response) OK() bool {
	return r.Kind == KindSuccess
}

// Success builds a successful response.
func Success(query, summary, chain string, strategy Strategy, toolsUsed []string) Response {
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	return Response{
		Kind:           KindSuccess,
		Summary:        summary,
		Query:          query,
		ToolsAvailable: append([]string(nil), ToolsAvailable...),
		ToolsUsed:      toolsUsed,
		ChainUsed:      chain,
		Strategy:       strategy,
	}
}

// Failure builds an error response whose summary is prefix followed by err.
func Failure(query, prefix string, err error) Response {
	return Response{
		Kind:           KindError,
		Summary:        prefix + err.Error(),
		Query:          query,
		Error:          err.Error(),
		ToolsAvailable: append([]string(nil), ToolsAvailable...),
		ToolsUsed:      []string{},
	}
}
