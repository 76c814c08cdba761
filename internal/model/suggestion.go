package model

// Suggestion is an AI-generated event recommendation tied to a user's
// expressed mood. Suggestions are ephemeral: they live for a single
// request/response cycle and are never persisted. EventID is only set
// after the suggestion's title has been reconciled against a real event;
// suggestions that fail reconciliation are dropped before the response
// is built.
type Suggestion struct {
	EventID         string `json:"id"`
	Title           string `json:"title"`
	Reason          string `json:"reason"`
	WellnessBenefit string `json:"wellness_benefit"`
}
