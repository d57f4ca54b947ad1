package api

import (
	"net/http"

	"github.com/dom/pitcher-favorites/internal/api/handlers"
	"github.com/dom/pitcher-favorites/internal/api/middleware"
	"github.com/dom/pitcher-favorites/internal/config"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/dom/pitcher-favorites/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Instrument(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.StripSlashes)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	authHandler := handlers.NewAuthHandler(services.Auth, log)
	pitcherHandler := handlers.NewPitcherHandler(services.Pitcher, log)
	favoriteHandler := handlers.NewFavoriteHandler(services.Favorite, services.Auth, log)

	requireAuth := middleware.Auth(services.Auth, log)
	limitByIP := httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r.Route("/api/v1", func(r chi.Router) {
		// Public account and token routes are rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(limitByIP)
			r.Post("/users", authHandler.Register)
			r.Post("/token", authHandler.ObtainToken)
			r.Post("/token/refresh", authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/users/info", authHandler.Info)
			r.Post("/token/revoke", authHandler.RevokeToken)

			r.Route("/pitchers", func(r chi.Router) {
				r.Get("/", pitcherHandler.List)
				r.Get("/{id}", pitcherHandler.Get)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoriteHandler.List)
				r.Post("/", favoriteHandler.Add)
				r.Get("/my_favorites", favoriteHandler.List)
				r.Get("/get_all_favorites", favoriteHandler.GetAll)
				r.Post("/save_favorites", favoriteHandler.Save)
				r.Delete("/delete_by_name", favoriteHandler.DeleteByName)
				r.Delete("/clear_all", favoriteHandler.ClearAll)
				r.Delete("/{id}", favoriteHandler.Delete)
			})
		})
	})

	return r
}
