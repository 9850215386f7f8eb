package service

import (
	"context"
	"strings"

	"github.com/dom/movie-catalog/internal/cache"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/metrics"
	"github.com/dom/movie-catalog/internal/repository"
	"go.uber.org/zap"
)

// GenreService evicts cached movies that embed a genre whenever that genre
// is renamed or deleted.
type GenreService struct {
	genreRepo repository.GenreRepository
	cache     cache.MovieCache
	logger    *zap.Logger
}

func NewGenreService(genreRepo repository.GenreRepository, movieCache cache.MovieCache, logger *zap.Logger) *GenreService {
	return &GenreService{
		genreRepo: genreRepo,
		cache:     movieCache,
		logger:    logger.Named("GenreService"),
	}
}

func (s *GenreService) Create(ctx context.Context, name string) (*domain.Genre, error) {
	genre := &domain.Genre{Name: strings.TrimSpace(name)}

	err := s.genreRepo.Create(ctx, genre)
	metrics.CatalogWrites.WithLabelValues("genre", "create", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Genre created", zap.Uint("genreID", genre.ID), zap.String("name", genre.Name))
	return genre, nil
}

func (s *GenreService) Get(ctx context.Context, id uint) (*domain.Genre, error) {
	return s.genreRepo.GetByID(ctx, id)
}

func (s *GenreService) List(ctx context.Context) ([]*domain.Genre, error) {
	return s.genreRepo.List(ctx)
}

func (s *GenreService) Update(ctx context.Context, id uint, name string) (*domain.Genre, error) {
	genre, err := s.genreRepo.Update(ctx, id, strings.TrimSpace(name))
	metrics.CatalogWrites.WithLabelValues("genre", "update", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	movieIDs, err := s.genreRepo.MovieIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, movieIDs...)

	s.logger.Info("Genre renamed", zap.Uint("genreID", id), zap.String("name", genre.Name))
	return genre, nil
}

// Delete removes the genre from every movie before removing the genre itself.
func (s *GenreService) Delete(ctx context.Context, id uint) (uint, error) {
	movieIDs, err := s.genreRepo.Delete(ctx, id)
	metrics.CatalogWrites.WithLabelValues("genre", "delete", metrics.Outcome(err)).Inc()
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(ctx, movieIDs...)

	s.logger.Info("Genre deleted", zap.Uint("genreID", id), zap.Int("detachedMovies", len(movieIDs)))
	return id, nil
}
