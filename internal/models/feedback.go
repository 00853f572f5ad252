package models

// Feedback is a user-submitted feedback entry.
type Feedback struct {
	ReceivedAt int64  `json:"receivedAt"`
	Email      string `json:"email,omitempty"`
	Game       string `json:"game"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
