package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/lazy-care/backend/internal/handler/chat"
	userHandler "github.com/lazy-care/backend/internal/handler/user"
	middlewarePkg "github.com/lazy-care/backend/internal/middleware"
	chatService "github.com/lazy-care/backend/internal/service/chat"
	userService "github.com/lazy-care/backend/internal/service/user"
	"github.com/lazy-care/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, userSvc *userService.Service, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsOrigin))

	chatH := chatHandler.New(chatSvc)
	chatWS := chatHandler.NewWebSocketHandler(chatSvc)
	userH := userHandler.New(userSvc)

	r.Route("/api", func(api chi.Router) {
		userH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
		chatWS.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
	})

	return r
}
