package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiSession wraps a genai chat, which keeps the conversation history itself.
type GeminiSession struct {
	mu   sync.Mutex
	chat *genai.Chat
}

func newGeminiSession(ctx context.Context, apiKey, modelName, systemInstruction string) (*GeminiSession, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if systemInstruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
		}
	}

	chat, err := client.Chats.Create(ctx, modelName, config, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini chat: %w", err)
	}

	return &GeminiSession{chat: chat}, nil
}

// Send forwards one message. genai.Chat appends to its history without locking,
// so sends are serialized here.
func (s *GeminiSession) Send(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", &RemoteExchangeError{Provider: providerGemini, Err: err}
	}

	text, err := replyText(resp)
	if err != nil {
		return "", &RemoteExchangeError{Provider: providerGemini, Err: err}
	}
	return text, nil
}

// replyText returns the reply text of the first candidate; thought parts are
// skipped by genai. A blank reply counts as a failed exchange.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response: %w", ErrEmptyReply)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
