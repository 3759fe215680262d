package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-chatbot/internal/domain"
	"ai-chatbot/internal/llm"
	"ai-chatbot/internal/repository"
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrEmptyMessage             = errors.New("empty message")
)

// ChatService orquesta el flujo de chat: persistir el mensaje del usuario,
// pedir la respuesta al modelo y persistirla bajo la misma sesión. Las
// lecturas y borrados son passthrough al repositorio.
type ChatService struct {
	repo   repository.MessageRepository
	llm    llm.Client
	cache  SessionCache
	logger *zap.Logger
	now    func() time.Time
}

func NewChatService(repo repository.MessageRepository, client llm.Client, cache SessionCache, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		repo:   repo,
		llm:    client,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ResolveSession devuelve la sesión efectiva: la del caller si no está en
// blanco, o la fecha UTC actual como YYYY-MM-DD.
func (s *ChatService) ResolveSession(session string) string {
	session = strings.TrimSpace(session)
	if session != "" {
		return session
	}
	return s.now().Format("2006-01-02")
}

// Send persiste el mensaje del usuario, genera la respuesta y la persiste.
// Si el modelo falla, el mensaje del usuario ya quedó guardado; no hay
// rollback y el error se devuelve al caller.
func (s *ChatService) Send(ctx context.Context, text, session string) (string, string, error) {
	if s == nil || s.repo == nil || s.llm == nil {
		return "", "", ErrChatServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrEmptyMessage
	}

	resolved := s.ResolveSession(session)

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Text:      text,
		Timestamp: s.now(),
		Session:   resolved,
	}
	if err := s.repo.Create(ctx, userMsg); err != nil {
		return "", resolved, fmt.Errorf("save user message: %w", err)
	}
	s.invalidateSessions(ctx)

	reply, err := s.llm.Generate(ctx, text)
	if err != nil {
		return "", resolved, fmt.Errorf("generate reply: %w", err)
	}

	botMsg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    domain.SenderBot,
		Text:      reply,
		Timestamp: s.now(),
		Session:   resolved,
	}
	if err := s.repo.Create(ctx, botMsg); err != nil {
		return "", resolved, fmt.Errorf("save bot message: %w", err)
	}

	return reply, resolved, nil
}

// History devuelve los mensajes de una sesión en orden ascendente de
// timestamp. Una sesión desconocida o en blanco no es error: lista vacía.
func (s *ChatService) History(ctx context.Context, session string) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return []domain.Message{}, nil
	}
	messages, err := s.repo.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Sessions lista los identificadores de sesión presentes en el almacén,
// usando la cache cuando está configurada.
func (s *ChatService) Sessions(ctx context.Context) ([]string, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}

	if cached, ok := s.cacheGet(ctx); ok {
		return cached, nil
	}

	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []string{}
	}
	s.cacheSet(ctx, sessions)
	return sessions, nil
}

// ClearSession borra los mensajes de una sesión y devuelve cuántos eliminó.
// Borrar una sesión desconocida es un no-op exitoso.
func (s *ChatService) ClearSession(ctx context.Context, session string) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrChatServiceNotConfigured
	}
	session = strings.TrimSpace(session)
	if session == "" {
		return 0, nil
	}
	count, err := s.repo.DeleteSession(ctx, session)
	if err != nil {
		return 0, err
	}
	s.invalidateSessions(ctx)
	return count, nil
}

// ClearAll borra todos los mensajes de todas las sesiones.
func (s *ChatService) ClearAll(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrChatServiceNotConfigured
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.invalidateSessions(ctx)
	return nil
}

func (s *ChatService) cacheGet(ctx context.Context) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx)
}

func (s *ChatService) cacheSet(ctx context.Context, sessions []string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, sessions); err != nil {
		s.logger.Warn("session cache set failed", zap.Error(err))
	}
}

func (s *ChatService) invalidateSessions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("session cache invalidate failed", zap.Error(err))
	}
}
