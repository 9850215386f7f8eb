package service

import (
	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/cache"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/events"
	"github.com/dom/movie-catalog/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth     *AuthService
	Movie    *MovieService
	Director *DirectorService
	Genre    *GenreService
}

// Deps are the optional collaborators; nil values fall back to no-ops.
type Deps struct {
	Cache     cache.MovieCache
	Publisher events.Publisher
}

func NewServices(repos *repository.Repositories, cfg *config.Config, logger *zap.Logger, deps Deps) *Services {
	if deps.Cache == nil {
		deps.Cache = cache.Nop()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Nop()
	}

	return &Services{
		Auth:     NewAuthService(repos.User, auth.NewTokenIssuer(cfg), cfg, logger),
		Movie:    NewMovieService(repos.Movie, deps.Cache, deps.Publisher, logger),
		Director: NewDirectorService(repos.Director, deps.Cache, logger),
		Genre:    NewGenreService(repos.Genre, deps.Cache, logger),
	}
}
