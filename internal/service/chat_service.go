package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"travel-assistant-be/internal/dto"
	"travel-assistant-be/internal/pkg/serverutils"
	"travel-assistant-be/pkg/rag"
	"travel-assistant-be/pkg/rag/executor"
	"travel-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) (*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
}

const defaultAnswerCacheTTL = 10 * time.Minute

// chatService ties the query pipeline to session storage and a
// short-lived answer cache keyed by the normalized query.
type chatService struct {
	pipeline     *executor.Pipeline
	sessionStore store.SessionStore
	answerCache  *gocache.Cache
	llmLogger    *log.Logger
}

func NewChatService(pipeline *executor.Pipeline, sessionStore store.SessionStore, llmLogger *log.Logger, answerCacheTTL time.Duration) IChatService {
	if answerCacheTTL <= 0 {
		answerCacheTTL = defaultAnswerCacheTTL
	}
	return &chatService{
		pipeline:     pipeline,
		sessionStore: sessionStore,
		answerCache:  gocache.New(answerCacheTTL, 2*answerCacheTTL),
		llmLogger:    llmLogger,
	}
}

// InitRagLogger opens the append-only trace log the pipeline writes to.
// Falls back to stdout when the file cannot be opened.
func InitRagLogger(logPath string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := store.NewSession(uuid.NewString())
	if err := cs.sessionStore.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	id, _ := uuid.Parse(session.ID)
	return &dto.CreateSessionResponse{Id: id}, nil
}

func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	normalized := rag.Normalize(request.Query)
	if normalized == "" {
		return nil, serverutils.NewApiError(fiber.StatusBadRequest, "Query is empty after normalization")
	}

	session, err := cs.resolveSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	sessionId, _ := uuid.Parse(session.ID)

	// Identical normalized queries within the TTL reuse the last answer
	// without touching the model stack.
	if cached, found := cs.answerCache.Get(normalized); found {
		reply := cached.(string)
		cs.llmLogger.Printf("[CACHE] Hit for %q", normalized)
		cs.appendAndSave(ctx, session, request.Query, reply)
		return &dto.SendChatResponse{
			SessionId:  sessionId,
			ResponseId: uuid.New(),
			Query:      request.Query,
			Reply:      reply,
			Cached:     true,
			CreatedAt:  time.Now(),
		}, nil
	}

	reply, err := cs.pipeline.AnswerQuery(ctx, request.Query)
	if err != nil {
		return nil, fmt.Errorf("answer query: %w", err)
	}

	cs.answerCache.Set(normalized, reply, gocache.DefaultExpiration)
	cs.appendAndSave(ctx, session, request.Query, reply)

	return &dto.SendChatResponse{
		SessionId:  sessionId,
		ResponseId: uuid.New(),
		Query:      request.Query,
		Reply:      reply,
		Cached:     false,
		CreatedAt:  time.Now(),
	}, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) (*dto.GetChatHistoryResponse, error) {
	session, err := cs.sessionStore.Get(ctx, sessionId.String())
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}

	messages := make([]dto.ChatHistoryEntry, 0, len(session.Messages))
	for _, message := range session.Messages {
		messages = append(messages, dto.ChatHistoryEntry{
			Role:      message.Role,
			Content:   message.Content,
			CreatedAt: message.CreatedAt,
		})
	}
	return &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Messages:  messages,
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	return cs.sessionStore.Delete(ctx, request.SessionId.String())
}

// resolveSession loads the requested session or creates one, including
// when the client supplied an id the store no longer has.
func (cs *chatService) resolveSession(ctx context.Context, sessionId uuid.UUID) (*store.Session, error) {
	if sessionId == uuid.Nil {
		return store.NewSession(uuid.NewString()), nil
	}
	session, err := cs.sessionStore.Get(ctx, sessionId.String())
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		session = store.NewSession(sessionId.String())
	}
	return session, nil
}

// appendAndSave records the turn in the session. Storage failure is not
// worth losing the answer over, so it only logs.
func (cs *chatService) appendAndSave(ctx context.Context, session *store.Session, query, reply string) {
	session.Append(query, reply)
	if err := cs.sessionStore.Save(ctx, session); err != nil {
		cs.llmLogger.Printf("[WARN] Failed to persist session %s: %v", session.ID, err)
	}
}
