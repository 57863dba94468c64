package buddy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attention-ai/doubtbuddy/backend/internal/model/assistant"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
	"github.com/attention-ai/doubtbuddy/backend/internal/service/ai"
	chatservice "github.com/attention-ai/doubtbuddy/backend/internal/service/chat"
)

type scriptedSession struct {
	reply string
	err   error
}

func (s scriptedSession) Send(context.Context, string) (string, error) {
	return s.reply, s.err
}

type recordingDispatcher struct {
	inner *ai.Dispatcher
	prior [][]chat.Turn
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, utterance string, prior []chat.Turn) ai.Result {
	d.prior = append(d.prior, prior)
	return d.inner.Dispatch(ctx, utterance, prior)
}

func newTestService(session ai.Session) (*Service, *recordingDispatcher) {
	profile := assistant.NewProfile("", "", "")
	manager := ai.NewManager(func(context.Context) (ai.Session, error) { return session, nil }, nil)
	dispatcher := &recordingDispatcher{inner: ai.NewDispatcher(manager, profile.FallbackMessage, nil)}
	return NewService(profile, chatservice.NewService(0), dispatcher, nil), dispatcher
}

func TestAskRecordsBothTurns(t *testing.T) {
	svc, dispatcher := newTestService(scriptedSession{reply: "The slope is the coefficient m."})
	ctx := context.Background()

	conversation, greeting, err := svc.Start(ctx)
	require.NoError(t, err)
	require.Len(t, greeting, 1)

	exchange, err := svc.Ask(ctx, conversation.ID, "What does m mean?")
	require.NoError(t, err)
	assert.Equal(t, "What does m mean?", exchange.User.Text)
	assert.Equal(t, "confused", exchange.User.Mood)
	assert.Equal(t, "The slope is the coefficient m.", exchange.Assistant.Text)
	assert.False(t, exchange.Assistant.Fallback)
	assert.Equal(t, ai.FailureNone, exchange.Failure)

	transcript, err := svc.Transcript(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal(t, chat.RoleUser, transcript[1].Role)
	assert.Equal(t, chat.RoleAssistant, transcript[2].Role)

	// the dispatcher sees the transcript as it was before this turn
	require.Len(t, dispatcher.prior, 1)
	assert.Len(t, dispatcher.prior[0], 1)
}

func TestAskFallbackBecomesAssistantTurn(t *testing.T) {
	svc, _ := newTestService(scriptedSession{err: errors.New("network down")})
	ctx := context.Background()

	conversation, _, err := svc.Start(ctx)
	require.NoError(t, err)

	exchange, err := svc.Ask(ctx, conversation.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, assistant.DefaultFallbackMessage, exchange.Assistant.Text)
	assert.True(t, exchange.Assistant.Fallback)
	assert.Equal(t, ai.FailureRemoteExchange, exchange.Failure)
}

func TestAskValidation(t *testing.T) {
	svc, dispatcher := newTestService(scriptedSession{reply: "unused"})
	ctx := context.Background()

	_, err := svc.Ask(ctx, "missing", "hello")
	assert.ErrorIs(t, err, chatservice.ErrConversationNotFound)

	conversation, _, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.Ask(ctx, conversation.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	assert.Empty(t, dispatcher.prior)
}
