package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/config"
	"github.com/attention-ai/doubtbuddy/backend/internal/handler"
	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/assistant"
	"github.com/attention-ai/doubtbuddy/backend/internal/service/ai"
	buddyService "github.com/attention-ai/doubtbuddy/backend/internal/service/buddy"
	chatService "github.com/attention-ai/doubtbuddy/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(false).Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log.Debug)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	if !cfg.AI.HasCredential() {
		log.Warn("assistant credential not configured, every turn will receive the fallback reply",
			zap.String("variable", cfg.AI.CredentialField()),
		)
	}

	profile := assistant.NewProfile(cfg.AI.Model, cfg.AI.SystemInstruction, cfg.AI.FallbackMessage)

	// the session itself is created on the first turn
	sessions := ai.NewManager(ai.NewSessionFactory(cfg.AI, log), log)
	dispatcher := ai.NewDispatcher(sessions, profile.FallbackMessage, log)

	chatSvc := chatService.NewService(cfg.Chat.TranscriptLimit)
	buddySvc := buddyService.NewService(profile, chatSvc, dispatcher, log)

	router := handler.NewRouter(buddySvc, log)

	startServer(ctx, log, cfg.Server, router)
}

func startServer(ctx context.Context, log *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("Doubt Buddy backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
