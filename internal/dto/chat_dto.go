package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id"`
	Query     string    `json:"query" validate:"required,min=1,max=2000"`
}

type SendChatResponse struct {
	SessionId  uuid.UUID `json:"session_id"`
	ResponseId uuid.UUID `json:"response_id"`
	Query      string    `json:"query"`
	Reply      string    `json:"reply"`
	Cached     bool      `json:"cached"`
	CreatedAt  time.Time `json:"created_at"`
}

type ChatHistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionId uuid.UUID          `json:"session_id"`
	Messages  []ChatHistoryEntry `json:"messages"`
}

type DeleteSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}
