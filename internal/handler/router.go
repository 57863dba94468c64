package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/handler/buddy"
	"github.com/attention-ai/doubtbuddy/backend/internal/handler/socket"
	"github.com/attention-ai/doubtbuddy/backend/internal/handler/stream"
	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	middlewarePkg "github.com/attention-ai/doubtbuddy/backend/internal/middleware"
	buddyService "github.com/attention-ai/doubtbuddy/backend/internal/service/buddy"
	"github.com/attention-ai/doubtbuddy/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(buddySvc *buddyService.Service, log *zap.Logger) http.Handler {
	log = logger.OrNop(log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	buddyHandler := buddy.New(buddySvc)
	streamHandler := stream.New(buddySvc, log)
	socketHandler := socket.NewWebSocketHandler(buddySvc, log)

	r.Route("/api", func(api chi.Router) {
		buddyHandler.RegisterRoutes(api)
		socketHandler.RegisterRoutes(api)

		api.Get("/stream/{conversationID}", func(w http.ResponseWriter, r *http.Request) {
			conversationID := chi.URLParam(r, "conversationID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			// headers are already sent once streaming starts; errors go out as SSE events
			if err := streamHandler.HandleStreamRequest(r.Context(), w, conversationID, userMessage); err != nil {
				log.Warn("stream request failed", zap.String("conversation", conversationID), zap.Error(err))
			}
		})
	})

	return r
}
