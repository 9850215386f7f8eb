package service

import (
	"context"
	"fmt"

	"github.com/dom/movie-catalog/internal/cache"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/events"
	"github.com/dom/movie-catalog/internal/metrics"
	"github.com/dom/movie-catalog/internal/repository"
	"go.uber.org/zap"
)

type MovieService struct {
	movieRepo repository.MovieRepository
	cache     cache.MovieCache
	publisher events.Publisher
	logger    *zap.Logger
}

func NewMovieService(movieRepo repository.MovieRepository, movieCache cache.MovieCache, publisher events.Publisher, logger *zap.Logger) *MovieService {
	return &MovieService{
		movieRepo: movieRepo,
		cache:     movieCache,
		publisher: publisher,
		logger:    logger.Named("MovieService"),
	}
}

// MoviePage is one page of movies plus the number of movies matching the filter.
type MoviePage struct {
	Movies []*domain.Movie
	Count  int64
}

func (s *MovieService) List(ctx context.Context, filter domain.MovieFilter) (*MoviePage, error) {
	if err := filter.Pagination.Validate(); err != nil {
		return nil, err
	}

	movies, count, err := s.movieRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return &MoviePage{Movies: movies, Count: count}, nil
}

func (s *MovieService) Get(ctx context.Context, id uint) (*domain.Movie, error) {
	if movie, ok := s.cache.Get(ctx, id); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return movie, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, movie)
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, params domain.CreateMovieParams) (*domain.Movie, error) {
	movie, err := s.movieRepo.Create(ctx, params)
	metrics.CatalogWrites.WithLabelValues("movie", "create", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Movie created", zap.Uint("movieID", movie.ID), zap.String("title", movie.Title))
	s.publish(ctx, events.NewMovieEvent(events.MovieCreated, movie.ID, movie.Title))
	return movie, nil
}

func (s *MovieService) Update(ctx context.Context, id uint, params domain.UpdateMovieParams) (*domain.Movie, error) {
	movie, err := s.movieRepo.Update(ctx, id, params)
	metrics.CatalogWrites.WithLabelValues("movie", "update", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("Movie updated", zap.Uint("movieID", id))
	s.publish(ctx, events.NewMovieEvent(events.MovieUpdated, movie.ID, movie.Title))
	return movie, nil
}

// Delete removes the movie and its detail and returns the deleted id.
func (s *MovieService) Delete(ctx context.Context, id uint) (uint, error) {
	err := s.movieRepo.Delete(ctx, id)
	metrics.CatalogWrites.WithLabelValues("movie", "delete", metrics.Outcome(err)).Inc()
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("Movie deleted", zap.Uint("movieID", id))
	s.publish(ctx, events.NewMovieEvent(events.MovieDeleted, id, ""))
	return id, nil
}

// publish runs after the transaction committed; a broker failure is logged
// and never undoes the write.
func (s *MovieService) publish(ctx context.Context, event events.MovieEvent) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("Failed to publish movie event",
			zap.String("type", string(event.Type)),
			zap.Uint("movieID", event.MovieID),
			zap.Error(err),
		)
	}
}
