package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attention-ai/doubtbuddy/backend/internal/model/assistant"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
)

type echoSender struct {
	priorLens []int
}

func (s *echoSender) SendTurn(_ context.Context, utterance string, prior []chat.Turn) string {
	s.priorLens = append(s.priorLens, len(prior))
	return "echo: " + utterance
}

func TestRunChatBuildsTranscript(t *testing.T) {
	sender := &echoSender{}
	profile := assistant.NewProfile("", "", "")
	in := strings.NewReader("What does m mean?\n\n   \nAnd c?\n/exit\nignored\n")
	var out bytes.Buffer

	transcript, err := runChat(context.Background(), in, &out, sender, profile)
	require.NoError(t, err)

	require.Len(t, transcript, 5)
	assert.Equal(t, chat.RoleAssistant, transcript[0].Role)
	assert.Equal(t, "What does m mean?", transcript[1].Text)
	assert.Equal(t, "echo: What does m mean?", transcript[2].Text)
	assert.Equal(t, "And c?", transcript[3].Text)
	assert.Equal(t, []int{1, 3}, sender.priorLens)

	assert.Contains(t, out.String(), profile.Greeting)
	assert.Contains(t, out.String(), "echo: And c?")
	assert.NotContains(t, out.String(), "ignored")
}

func TestRunChatStopsAtEOF(t *testing.T) {
	sender := &echoSender{}
	transcript, err := runChat(context.Background(), strings.NewReader("hi"), &bytes.Buffer{}, sender, assistant.NewProfile("", "", ""))
	require.NoError(t, err)
	assert.Len(t, transcript, 3)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "buddy", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("debug"))
}
