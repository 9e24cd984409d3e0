package store

import (
	"context"
	"time"
)

// Document represents a retrieved event/document candidate in the RAG system
type Document struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn of a conversation
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents the conversation state for one chat session.
// It is the only entity that outlives a single query.
type Session struct {
	ID        string        `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	LastQuery string        `json:"last_query"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession builds an empty session with the given id.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records a user/assistant exchange on the session.
func (s *Session) Append(query, reply string) {
	now := time.Now()
	s.Messages = append(s.Messages,
		ChatMessage{Role: RoleUser, Content: query, CreatedAt: now},
		ChatMessage{Role: RoleAssistant, Content: reply, CreatedAt: now},
	)
	s.LastQuery = query
	s.UpdatedAt = now
}

// SessionStore persists chat sessions. Drivers: Redis and in-memory.
type SessionStore interface {
	// Save creates or replaces a session.
	Save(ctx context.Context, session *Session) error

	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
