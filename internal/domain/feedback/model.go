package feedback

import "time"

type Type string

const (
	TypeSupport    Type = "support"
	TypeBug        Type = "bug"
	TypeSuggestion Type = "suggestion"
)

// Message is one feedback submission. It is also the queue payload.
type Message struct {
	Type        Type      `json:"type"`
	Message     string    `json:"message"`
	UserEmail   string    `json:"userEmail"`
	UserName    string    `json:"userName,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}
