package service

import (
	"context"
	"time"

	"github.com/dom/movie-catalog/internal/cache"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/metrics"
	"github.com/dom/movie-catalog/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type DirectorService struct {
	directorRepo repository.DirectorRepository
	cache        cache.MovieCache
	logger       *zap.Logger
}

func NewDirectorService(directorRepo repository.DirectorRepository, movieCache cache.MovieCache, logger *zap.Logger) *DirectorService {
	return &DirectorService{
		directorRepo: directorRepo,
		cache:        movieCache,
		logger:       logger.Named("DirectorService"),
	}
}

type CreateDirectorInput struct {
	Name        string
	DOB         time.Time
	Nationality string
}

func (s *DirectorService) Create(ctx context.Context, input CreateDirectorInput) (*domain.Director, error) {
	director := &domain.Director{
		Name:        input.Name,
		DOB:         datatypes.Date(input.DOB),
		Nationality: input.Nationality,
	}

	err := s.directorRepo.Create(ctx, director)
	metrics.CatalogWrites.WithLabelValues("director", "create", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Director created", zap.Uint("directorID", director.ID))
	return director, nil
}

func (s *DirectorService) Get(ctx context.Context, id uint) (*domain.Director, error) {
	return s.directorRepo.GetByID(ctx, id)
}

func (s *DirectorService) List(ctx context.Context) ([]*domain.Director, error) {
	return s.directorRepo.List(ctx)
}

func (s *DirectorService) Update(ctx context.Context, id uint, params domain.UpdateDirectorParams) (*domain.Director, error) {
	director, err := s.directorRepo.Update(ctx, id, params)
	metrics.CatalogWrites.WithLabelValues("director", "update", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	// cached movies embed the director record
	movieIDs, err := s.directorRepo.MovieIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, movieIDs...)

	s.logger.Info("Director updated", zap.Uint("directorID", id))
	return director, nil
}

func (s *DirectorService) Delete(ctx context.Context, id uint) (uint, error) {
	err := s.directorRepo.Delete(ctx, id)
	metrics.CatalogWrites.WithLabelValues("director", "delete", metrics.Outcome(err)).Inc()
	if err != nil {
		return 0, err
	}

	s.logger.Info("Director deleted", zap.Uint("directorID", id))
	return id, nil
}
