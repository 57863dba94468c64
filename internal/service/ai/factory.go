package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/config"
	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
)

// NewSessionFactory returns the factory for the configured provider. The
// credential is checked when the factory runs, not here, so a process without
// a key still starts and serves fallback replies.
func NewSessionFactory(cfg config.AIConfig, log *zap.Logger) SessionFactory {
	log = logger.OrNop(log)

	return func(ctx context.Context) (Session, error) {
		if !cfg.HasCredential() {
			return nil, &ConfigurationError{Field: cfg.CredentialField(), Err: ErrMissingCredential}
		}
		if cfg.Model == "" {
			return nil, &ConfigurationError{Field: "AI_MODEL", Err: ErrMissingModel}
		}

		log.Info("creating assistant session",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)

		switch cfg.Provider {
		case config.ProviderArk:
			chatModel, err := cfg.NewArkChatModel(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to create chat model: %w", err)
			}
			session, err := newArkSession(ctx, chatModel, cfg.SystemInstruction, cfg.HistoryLimit)
			if err != nil {
				return nil, err
			}
			return session, nil
		case config.ProviderGemini, "":
			session, err := newGeminiSession(ctx, cfg.APIKey, cfg.Model, cfg.SystemInstruction)
			if err != nil {
				return nil, err
			}
			return session, nil
		default:
			return nil, &ConfigurationError{Field: "AI_PROVIDER", Err: fmt.Errorf("unsupported provider %q", cfg.Provider)}
		}
	}
}
