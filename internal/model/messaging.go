package model

import "time"

// Conversation is the summary row returned by the conversation listing
// delegate. The shape mirrors what the list_user_conversations function
// reports; no further invariant is enforced locally beyond caller scoping.
type Conversation struct {
	ID              string     `json:"id"`
	Subject         string     `json:"subject,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	LastMessageText string     `json:"last_message_text,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	ParticipantIDs  []string   `json:"participant_ids"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Draft is an unsent message belonging to exactly one author.
type Draft struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id,omitempty"`
	AuthorID       string     `json:"author_id"`
	Body           string     `json:"body"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// DraftCreateRequest represents a request to save a new draft.
type DraftCreateRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Body           string `json:"body"`
}
