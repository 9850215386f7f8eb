package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/movie-catalog/internal/domain"
	"gorm.io/gorm"
)

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *genreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGenreNameFree(tx, genre.Name, 0); err != nil {
			return err
		}
		return translateGenreError(tx.Create(genre).Error)
	})
}

func (r *genreRepository) GetByID(ctx context.Context, id uint) (*domain.Genre, error) {
	var genre domain.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, notFound(err, domain.ErrGenreNotFound)
	}
	return &genre, nil
}

func (r *genreRepository) List(ctx context.Context) ([]*domain.Genre, error) {
	var genres []*domain.Genre
	err := r.db.WithContext(ctx).Order("id ASC").Find(&genres).Error
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, id uint, name string) (*domain.Genre, error) {
	var genre domain.Genre
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&genre, id).Error; err != nil {
			return notFound(err, domain.ErrGenreNotFound)
		}
		if err := ensureGenreNameFree(tx, name, id); err != nil {
			return err
		}
		genre.Name = name
		return translateGenreError(tx.Save(&genre).Error)
	})
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// Delete drops the genre's movie associations and then the genre itself.
// The movies stay; their ids are returned.
func (r *genreRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var movieIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre domain.Genre
		if err := tx.First(&genre, id).Error; err != nil {
			return notFound(err, domain.ErrGenreNotFound)
		}

		var err error
		movieIDs, err = genreMovieIDs(tx, id)
		if err != nil {
			return err
		}

		err = tx.Exec("DELETE FROM "+domain.MovieGenresTable+" WHERE genre_id = ?", id).Error
		if err != nil {
			return fmt.Errorf("failed to remove genre associations: %w", err)
		}

		return tx.Delete(&genre).Error
	})
	if err != nil {
		return nil, err
	}
	return movieIDs, nil
}

// MovieIDs lists the movies currently tagged with the genre.
func (r *genreRepository) MovieIDs(ctx context.Context, id uint) ([]uint, error) {
	return genreMovieIDs(r.db.WithContext(ctx), id)
}

func genreMovieIDs(db *gorm.DB, genreID uint) ([]uint, error) {
	var ids []uint
	err := db.Table(domain.MovieGenresTable).
		Where("genre_id = ?", genreID).
		Order("movie_id ASC").
		Pluck("movie_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for genre: %w", err)
	}
	return ids, nil
}

// findGenres resolves every id or fails with ErrGenreNotFound.
func findGenres(db *gorm.DB, ids []uint) ([]domain.Genre, error) {
	if len(ids) == 0 {
		return []domain.Genre{}, nil
	}

	var genres []domain.Genre
	if err := db.Where("id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(ids) {
		return nil, fmt.Errorf("%w: requested %d, found %d", domain.ErrGenreNotFound, len(ids), len(genres))
	}
	return genres, nil
}

func ensureGenreNameFree(db *gorm.DB, name string, exceptID uint) error {
	var count int64
	err := db.Model(&domain.Genre{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrGenreNameExists
	}
	return nil
}

func translateGenreError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrGenreNameExists
	}
	return err
}
