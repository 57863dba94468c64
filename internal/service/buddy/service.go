package buddy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/analysis/mood"
	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/assistant"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
	"github.com/attention-ai/doubtbuddy/backend/internal/service/ai"
)

// ErrEmptyMessage is returned for blank utterances; the dispatcher itself does not validate them.
var ErrEmptyMessage = errors.New("message must not be empty")

// TurnDispatcher is the part of ai.Dispatcher the conversation flow needs.
type TurnDispatcher interface {
	Dispatch(ctx context.Context, utterance string, prior []chat.Turn) ai.Result
}

// TranscriptStore persists caller-owned transcripts.
type TranscriptStore interface {
	CreateConversation(ctx context.Context, greeting string) (chat.Conversation, []chat.Turn, error)
	GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error)
	AppendTurn(ctx context.Context, conversationID string, turn chat.Turn) (chat.Turn, error)
	LoadTranscript(ctx context.Context, conversationID string) ([]chat.Turn, error)
}

// Exchange is the pair of turns produced by one Ask.
type Exchange struct {
	User      chat.Turn
	Assistant chat.Turn
	Failure   ai.FailureReason
}

// Service runs Doubt Buddy conversations on top of the turn dispatcher.
type Service struct {
	profile    assistant.Profile
	store      TranscriptStore
	dispatcher TurnDispatcher
	logger     *zap.Logger
}

// NewService wires the transcript store to the dispatcher.
func NewService(profile assistant.Profile, store TranscriptStore, dispatcher TurnDispatcher, log *zap.Logger) *Service {
	return &Service{
		profile:    profile,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger.OrNop(log),
	}
}

// Profile returns the assistant profile shown to clients.
func (s *Service) Profile() assistant.Profile {
	return s.profile
}

// Start opens a conversation whose transcript begins with the greeting.
func (s *Service) Start(ctx context.Context) (chat.Conversation, []chat.Turn, error) {
	return s.store.CreateConversation(ctx, s.profile.Greeting)
}

// Transcript returns the turns recorded for a conversation.
func (s *Service) Transcript(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	return s.store.LoadTranscript(ctx, conversationID)
}

// Ask records the user's utterance, dispatches it and records the reply. A
// failed dispatch still produces an assistant turn carrying the fallback text.
func (s *Service) Ask(ctx context.Context, conversationID, utterance string) (Exchange, error) {
	if strings.TrimSpace(utterance) == "" {
		return Exchange{}, ErrEmptyMessage
	}

	prior, err := s.store.LoadTranscript(ctx, conversationID)
	if err != nil {
		return Exchange{}, err
	}

	userTurn := chat.UserTurn(utterance)
	userTurn.Mood = string(mood.Analyze(utterance).Mood)
	userTurn, err = s.store.AppendTurn(ctx, conversationID, userTurn)
	if err != nil {
		return Exchange{}, fmt.Errorf("failed to save user turn: %w", err)
	}

	result := s.dispatcher.Dispatch(ctx, utterance, prior)

	assistantTurn := chat.AssistantTurn(result.Text())
	assistantTurn.Fallback = !result.OK()
	assistantTurn, err = s.store.AppendTurn(ctx, conversationID, assistantTurn)
	if err != nil {
		return Exchange{}, fmt.Errorf("failed to save assistant turn: %w", err)
	}

	s.logger.Info("turn completed",
		zap.String("conversation", conversationID),
		zap.String("mood", userTurn.Mood),
		zap.Bool("fallback", assistantTurn.Fallback),
	)

	return Exchange{User: userTurn, Assistant: assistantTurn, Failure: result.Failure}, nil
}
