package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidRole          = errors.New("turn role must be user or assistant")
)

const defaultTranscriptLimit = 200

// Service keeps caller-owned transcripts in memory. Transcripts are
// append-only: turns are never edited or reordered.
type Service struct {
	mu            sync.RWMutex
	limit         int
	conversations map[string]chat.Conversation
	transcripts   map[string][]chat.Turn
}

// NewService creates an in-memory store that retains at most limit turns per
// conversation; a non-positive limit selects the default.
func NewService(limit int) *Service {
	if limit <= 0 {
		limit = defaultTranscriptLimit
	}
	return &Service{
		limit:         limit,
		conversations: make(map[string]chat.Conversation),
		transcripts:   make(map[string][]chat.Turn),
	}
}

// CreateConversation opens a transcript, optionally seeded with an assistant greeting.
func (s *Service) CreateConversation(_ context.Context, greeting string) (chat.Conversation, []chat.Turn, error) {
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	transcript := make([]chat.Turn, 0, 16)
	if greeting != "" {
		turn := chat.AssistantTurn(greeting)
		turn.ID = uuid.NewString()
		transcript = append(transcript, turn)
	}

	s.mu.Lock()
	s.conversations[conversation.ID] = conversation
	s.transcripts[conversation.ID] = transcript
	s.mu.Unlock()

	return conversation, append([]chat.Turn(nil), transcript...), nil
}

// AppendTurn stores a turn at the end of the transcript and returns it with
// its assigned identifier.
func (s *Service) AppendTurn(_ context.Context, conversationID string, turn chat.Turn) (chat.Turn, error) {
	if !turn.Role.Valid() {
		return chat.Turn{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return chat.Turn{}, ErrConversationNotFound
	}

	turn.ID = uuid.NewString()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	transcript := append(s.transcripts[conversationID], turn)
	if len(transcript) > s.limit {
		// copy so the dropped prefix can be collected
		transcript = append([]chat.Turn(nil), transcript[len(transcript)-s.limit:]...)
	}
	s.transcripts[conversationID] = transcript
	return turn, nil
}

// GetConversation retrieves a conversation by identifier.
func (s *Service) GetConversation(_ context.Context, conversationID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return conversation, nil
}

// LoadTranscript returns a copy of the retained turns, oldest first.
func (s *Service) LoadTranscript(_ context.Context, conversationID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.transcripts[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}

	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}
