package ws

// DecisionMessage is a client -> server message carrying a call decision.
type DecisionMessage struct {
	Type string `json:"type"` // "switch_to_paid" | "end_call"
}

const (
	DecisionSwitchToPaid = "switch_to_paid"
	DecisionEndCall      = "end_call"
)

// ErrorMessage is a server -> client rejection of an invalid decision.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
