package http

import (
	"ShrinkIt-Backend/internal/auth"
	"ShrinkIt-Backend/internal/config"
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	authHandlers    *auth.Handlers
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	httpCfg         *config.HTTPServer
	rateCfg         *config.RateLimit
	log             *zap.Logger
}

// Dependencies зависимости HTTP слоя
type Dependencies struct {
	Storage   repository.Storage
	Links     *service.LinkService
	Resolver  *service.Resolver
	Clicks    ClickSubmitter
	Stats     StatsProvider
	JWT       *auth.JWTService
	Passwords *auth.PasswordService
}

// NewServer создает новый HTTP сервер
func NewServer(cfg *config.Config, deps Dependencies, log *zap.Logger) *Server {
	return &Server{
		authHandlers:    auth.NewHandlers(deps.Storage, deps.JWT, deps.Passwords, log),
		linksHandler:    NewLinksHandler(deps.Links, log),
		redirectHandler: NewRedirectHandler(deps.Resolver, deps.Clicks, log),
		healthHandler:   NewHealthHandler(deps.Storage, deps.Stats, log),
		authMiddleware:  auth.NewMiddleware(deps.JWT, log),
		httpCfg:         &cfg.HTTPServer,
		rateCfg:         &cfg.RateLimit,
		log:             log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))
	r.Use(auth.CORS(s.httpCfg.AllowedOrigins))

	// Health checks (без аутентификации)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/ready", s.healthHandler.Ready)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", s.authHandlers.Register)
		r.Post("/users/login", s.authHandlers.Login)

		r.Route("/links", func(r chi.Router) {
			r.Use(s.authMiddleware.RequireAuth)

			r.Post("/", s.linksHandler.CreateLink)
			r.Get("/", s.linksHandler.ListLinks)
			r.Post("/analyze", s.linksHandler.AnalyzeURL)
			r.Put("/{id}", s.linksHandler.UpdateLink)
			r.Delete("/{id}", s.linksHandler.DeleteLink)
			r.Get("/{id}/qr", s.linksHandler.GetQRCode)
			r.Get("/{id}/analytics", s.linksHandler.GetAnalytics)
		})
	})

	// Публичный редирект, должен быть последним
	r.With(rateLimit(s.rateCfg.Enabled, s.rateCfg.RPS, s.rateCfg.Burst, s.log)).
		Get("/{shortCode}", s.redirectHandler.HandleRedirect)

	return r
}
