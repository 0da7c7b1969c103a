package domain

// WebSocket event types to viewers.
const (
	EventNewResults   = "new_results"
	EventResetResults = "reset_results"
	EventError        = "error"
	EventPong         = "pong"
)

// WebSocket message types from viewers.
const (
	MsgTypePing = "ping"
)

// Error codes
const (
	ErrCodeBadRequest = "BAD_REQUEST"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Server -> Client events

// NewResultsEvent carries the current race's position→lane mapping. It is
// broadcast to the room on every publish and sent once to a connecting
// viewer when the current race already has results.
type NewResultsEvent struct {
	Type    string   `json:"type"`
	Results Snapshot `json:"results"`
}

// ResetResultsEvent signals that the current race state is invalidated.
// It carries no payload.
type ResetResultsEvent struct {
	Type string `json:"type"`
}

type PongMessage struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewResultsMessage(results Snapshot) *NewResultsEvent {
	return &NewResultsEvent{Type: EventNewResults, Results: results}
}

func NewResetMessage() *ResetResultsEvent {
	return &ResetResultsEvent{Type: EventResetResults}
}

func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{Type: EventError, Code: code, Message: message}
}
