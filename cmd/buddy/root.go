package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/config"
	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/assistant"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
	"github.com/attention-ai/doubtbuddy/backend/internal/service/ai"
)

const exitCommand = "/exit"

// turnSender is satisfied by *ai.Dispatcher.
type turnSender interface {
	SendTurn(ctx context.Context, utterance string, prior []chat.Turn) string
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "buddy",
		Short: "Chat with the AI Doubt Buddy from the terminal",
		Long: "Starts an interactive Doubt Buddy conversation. Configuration is read from the\n" +
			"environment (and .env): API_KEY, AI_PROVIDER, AI_MODEL. Type " + exitCommand + " to quit.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log := zap.NewNop()
			if debug || cfg.Log.Debug {
				log = logger.New(true)
			}
			defer log.Sync()

			profile := assistant.NewProfile(cfg.AI.Model, cfg.AI.SystemInstruction, cfg.AI.FallbackMessage)
			sessions := ai.NewManager(ai.NewSessionFactory(cfg.AI, log), log)
			dispatcher := ai.NewDispatcher(sessions, profile.FallbackMessage, log)

			_, err = runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), dispatcher, profile)
			return err
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "print debug logs")
	return cmd
}

// runChat reads one utterance per line until EOF or the exit command and
// returns the transcript it built.
func runChat(ctx context.Context, in io.Reader, out io.Writer, sender turnSender, profile assistant.Profile) ([]chat.Turn, error) {
	transcript := []chat.Turn{chat.AssistantTurn(profile.Greeting)}
	fmt.Fprintf(out, "%s: %s\n", profile.Name, profile.Greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == exitCommand {
			break
		}

		prior := append([]chat.Turn(nil), transcript...)
		transcript = append(transcript, chat.UserTurn(line))

		reply := sender.SendTurn(ctx, line, prior)
		transcript = append(transcript, chat.AssistantTurn(reply))
		fmt.Fprintf(out, "%s: %s\n", profile.Name, reply)
	}

	if err := scanner.Err(); err != nil {
		return transcript, fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Fprintln(out)
	return transcript, nil
}
