package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const providerArk = "ark"

// ArkSession runs each turn through an eino chat chain and keeps the
// conversation memory in-process, since the Ark API is stateless.
type ArkSession struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	system       string
	historyLimit int

	mu      sync.Mutex
	history []*schema.Message
}

func newArkSession(ctx context.Context, chatModel model.BaseChatModel, systemInstruction string, historyLimit int) (*ArkSession, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	if historyLimit < 1 {
		historyLimit = 10
	}

	return &ArkSession{
		chain:        runnable,
		system:       systemInstruction,
		historyLimit: historyLimit,
	}, nil
}

// Send runs one turn. The history is only extended when the model replied.
func (s *ArkSession) Send(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input := map[string]any{
		"system":  s.system,
		"history": s.window(),
		"query":   message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", &RemoteExchangeError{Provider: providerArk, Err: err}
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", &RemoteExchangeError{Provider: providerArk, Err: ErrEmptyReply}
	}

	s.history = append(s.history, schema.UserMessage(message), schema.AssistantMessage(response.Content, nil))
	return response.Content, nil
}

func (s *ArkSession) window() []*schema.Message {
	start := 0
	if len(s.history) > s.historyLimit {
		start = len(s.history) - s.historyLimit
	}
	return append([]*schema.Message(nil), s.history[start:]...)
}
