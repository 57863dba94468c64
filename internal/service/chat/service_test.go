package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
	chatservice "github.com/attention-ai/doubtbuddy/backend/internal/service/chat"
)

func TestServiceCreateConversationSeedsGreeting(t *testing.T) {
	svc := chatservice.NewService(0)
	ctx := context.Background()

	conversation, transcript, err := svc.CreateConversation(ctx, "Hi!")
	if err != nil {
		t.Fatalf("CreateConversation err: %v", err)
	}
	if len(transcript) != 1 || transcript[0].Role != chat.RoleAssistant || transcript[0].Text != "Hi!" {
		t.Fatalf("unexpected greeting transcript: %+v", transcript)
	}

	got, err := svc.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("GetConversation err: %v", err)
	}
	if got.ID != conversation.ID {
		t.Fatalf("unexpected conversation ID: got %s want %s", got.ID, conversation.ID)
	}
}

func TestServiceAppendTurnKeepsOrder(t *testing.T) {
	svc := chatservice.NewService(0)
	ctx := context.Background()

	conversation, _, err := svc.CreateConversation(ctx, "")
	if err != nil {
		t.Fatalf("CreateConversation err: %v", err)
	}

	for _, turn := range []chat.Turn{
		chat.UserTurn("What does m mean?"),
		chat.AssistantTurn("The slope is the coefficient m."),
		chat.UserTurn("Thanks"),
	} {
		if _, err := svc.AppendTurn(ctx, conversation.ID, turn); err != nil {
			t.Fatalf("AppendTurn err: %v", err)
		}
	}

	transcript, err := svc.LoadTranscript(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(transcript))
	}
	if transcript[0].Text != "What does m mean?" || transcript[2].Text != "Thanks" {
		t.Fatalf("unexpected order: %+v", transcript)
	}
	if transcript[0].ID == "" || transcript[0].ID == transcript[1].ID {
		t.Fatal("expected unique turn identifiers")
	}
}

func TestServiceTranscriptIsACopy(t *testing.T) {
	svc := chatservice.NewService(0)
	ctx := context.Background()

	conversation, _, _ := svc.CreateConversation(ctx, "Hi!")
	transcript, _ := svc.LoadTranscript(ctx, conversation.ID)
	transcript[0].Text = "tampered"

	again, _ := svc.LoadTranscript(ctx, conversation.ID)
	if again[0].Text != "Hi!" {
		t.Fatalf("stored transcript was mutated: %q", again[0].Text)
	}
}

func TestServiceTranscriptLimit(t *testing.T) {
	svc := chatservice.NewService(3)
	ctx := context.Background()

	conversation, _, _ := svc.CreateConversation(ctx, "")
	for i := 0; i < 5; i++ {
		if _, err := svc.AppendTurn(ctx, conversation.ID, chat.UserTurn(fmt.Sprintf("q%d", i))); err != nil {
			t.Fatalf("AppendTurn err: %v", err)
		}
	}

	transcript, _ := svc.LoadTranscript(ctx, conversation.ID)
	if len(transcript) != 3 {
		t.Fatalf("expected 3 retained turns, got %d", len(transcript))
	}
	if transcript[0].Text != "q2" || transcript[2].Text != "q4" {
		t.Fatalf("unexpected retained window: %+v", transcript)
	}
}

func TestServiceErrors(t *testing.T) {
	svc := chatservice.NewService(0)
	ctx := context.Background()

	if _, err := svc.GetConversation(ctx, "missing"); !errors.Is(err, chatservice.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if _, err := svc.LoadTranscript(ctx, "missing"); !errors.Is(err, chatservice.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if _, err := svc.AppendTurn(ctx, "missing", chat.UserTurn("hi")); !errors.Is(err, chatservice.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	conversation, _, _ := svc.CreateConversation(ctx, "")
	if _, err := svc.AppendTurn(ctx, conversation.ID, chat.Turn{Role: "model", Text: "hi"}); !errors.Is(err, chatservice.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
