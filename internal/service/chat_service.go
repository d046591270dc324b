package service

import (
	"context"
	"sync"

	"roleplay-online/backend/ai"
	"roleplay-online/backend/internal/models"
	"roleplay-online/backend/internal/store"
	apperrors "roleplay-online/backend/pkg/errors"
	"roleplay-online/backend/pkg/logger"
	"roleplay-online/backend/pkg/observability"
)

// Preview length for the recency index, in runes.
const previewLength = 40

// Notifier pushes session events to connected clients. The WebSocket hub
// implements it; a nil notifier drops events.
type Notifier interface {
	Notify(email, eventType string, payload any)
}

// Session event types.
const (
	EventMessageAppended   = "message.appended"
	EventGenerationPending = "generation.pending"
	EventGenerationDone    = "generation.done"
)

// ChatService runs the send-message protocol: optimistic user turn, one
// in-flight generation per user, assistant turn persisted on success, and
// the recency index updated with a reply preview.
type ChatService struct {
	store    *store.Store
	client   ai.Client
	notifier Notifier
	metrics  *observability.Metrics
	log      *logger.Logger

	mu      sync.Mutex
	pending map[string]bool
}

func NewChatService(s *store.Store, client ai.Client, notifier Notifier, metrics *observability.Metrics, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &ChatService{
		store:    s,
		client:   client,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		pending:  make(map[string]bool),
	}
}

// History loads the chat log for a (user, character) pair. A first visit
// seeds exactly one assistant message carrying the character's greeting and
// persists it before returning.
func (s *ChatService) History(email string, char models.Character) ([]models.Message, error) {
	msgs, err := s.store.GetMessages(email, char.ID)
	if err != nil {
		return nil, apperrors.NewInternalServerError("HISTORY_LOAD_FAILED", "could not load chat history")
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	greeting := models.NewMessage(models.RoleAssistant, char.Greeting)
	if err := s.store.AppendMessages(email, char.ID, greeting); err != nil {
		return nil, apperrors.NewInternalServerError("HISTORY_SEED_FAILED", "could not seed chat greeting")
	}
	return []models.Message{greeting}, nil
}

// Send runs one chat turn. The user message is persisted before generation
// starts, so a storage fault after that point leaves the user turn in the
// log with no assistant reply, exactly like an interrupted conversation.
func (s *ChatService) Send(ctx context.Context, email string, char models.Character, content, imageBase64 string) (models.Message, models.Message, error) {
	if content == "" && imageBase64 == "" {
		return models.Message{}, models.Message{}, apperrors.NewBadRequestError("EMPTY_MESSAGE", "message has no content")
	}
	if !s.acquire(email) {
		return models.Message{}, models.Message{}, apperrors.NewConflictError("GENERATION_PENDING", "a reply is already being generated")
	}
	defer s.release(email)

	history, err := s.store.GetMessages(email, char.ID)
	if err != nil {
		return models.Message{}, models.Message{}, apperrors.NewInternalServerError("HISTORY_LOAD_FAILED", "could not load chat history")
	}

	// Only the caption is persisted for image turns. The payload rides
	// along to the generation call and is never replayed as history text.
	userMsg := models.NewMessage(models.RoleUser, content)
	if imageBase64 != "" {
		userMsg.Type = models.TypeImage
	}
	if err := s.store.AppendMessages(email, char.ID, userMsg); err != nil {
		return models.Message{}, models.Message{}, apperrors.NewInternalServerError("MESSAGE_SAVE_FAILED", "could not persist message")
	}
	s.notify(email, EventMessageAppended, userMsg)
	s.notify(email, EventGenerationPending, map[string]string{"character_id": char.ID})

	reply := s.client.GenerateReply(ctx, char, content, history, imageBase64)
	assistantMsg := models.NewMessage(models.RoleAssistant, reply)

	if err := s.store.AppendMessages(email, char.ID, assistantMsg); err != nil {
		s.log.Error("Assistant turn lost", "character", char.ID, "error", err.Error())
		s.notify(email, EventGenerationDone, map[string]string{"character_id": char.ID, "status": "failed"})
		return userMsg, models.Message{}, apperrors.NewInternalServerError("MESSAGE_SAVE_FAILED", "could not persist reply")
	}

	entry := models.ChatHistoryEntry{
		CharID:    char.ID,
		LastMsg:   preview(reply),
		Timestamp: assistantMsg.Timestamp,
	}
	if err := s.store.UpsertRecent(email, entry); err != nil {
		// The turn itself succeeded; a stale sidebar is tolerable.
		s.log.Warn("Recency index update failed", "user", email, "error", err.Error())
	}

	s.metrics.RecordChatTurn(ctx)
	s.notify(email, EventMessageAppended, assistantMsg)
	s.notify(email, EventGenerationDone, map[string]string{"character_id": char.ID, "status": "ok"})
	return userMsg, assistantMsg, nil
}

// Recent returns the viewer's recency index, most recent first.
func (s *ChatService) Recent(email string) ([]models.ChatHistoryEntry, error) {
	list, err := s.store.GetRecent(email)
	if err != nil {
		return nil, apperrors.NewInternalServerError("RECENT_LOAD_FAILED", "could not load recent chats")
	}
	return list, nil
}

func (s *ChatService) acquire(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[email] {
		return false
	}
	s.pending[email] = true
	return true
}

func (s *ChatService) release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, email)
}

func (s *ChatService) notify(email, eventType string, payload any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(email, eventType, payload)
}

// preview truncates a reply for the recency sidebar.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text + "..."
	}
	return string(runes[:previewLength]) + "..."
}
