package api

import (
	"net/http"

	"github.com/dom/movie-catalog/internal/api/handlers"
	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	movieHandler := handlers.NewMovieHandler(services.Movie, logger)
	directorHandler := handlers.NewDirectorHandler(services.Director, logger)
	genreHandler := handlers.NewGenreHandler(services.Genre, logger)

	requireAccess := middleware.RequireToken(domain.TokenAccess)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// Basic credentials, no bearer decoding
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Bearer(services.Auth.Tokens(), logger))

		r.With(middleware.RequireToken(domain.TokenRefresh)).Post("/auth/token/access", authHandler.RotateAccessToken)
		r.With(requireAccess).Get("/auth/me", authHandler.Me)

		r.Route("/movie", func(r chi.Router) {
			r.Get("/", movieHandler.List)
			r.Get("/{id}", movieHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAccess, requireAdmin)
				r.Post("/", movieHandler.Create)
				r.Patch("/{id}", movieHandler.Update)
				r.Delete("/{id}", movieHandler.Delete)
			})
		})

		r.Route("/director", func(r chi.Router) {
			r.Get("/", directorHandler.List)
			r.Get("/{id}", directorHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAccess, requireAdmin)
				r.Post("/", directorHandler.Create)
				r.Patch("/{id}", directorHandler.Update)
				r.Delete("/{id}", directorHandler.Delete)
			})
		})

		r.Route("/genre", func(r chi.Router) {
			r.Get("/", genreHandler.List)
			r.Get("/{id}", genreHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAccess, requireAdmin)
				r.Post("/", genreHandler.Create)
				r.Patch("/{id}", genreHandler.Update)
				r.Delete("/{id}", genreHandler.Delete)
			})
		})
	})

	return r
}
