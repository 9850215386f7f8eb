package postgres

import (
	"context"
	"fmt"

	"github.com/dom/movie-catalog/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type directorRepository struct {
	db *gorm.DB
}

func NewDirectorRepository(db *gorm.DB) *directorRepository {
	return &directorRepository{db: db}
}

func (r *directorRepository) Create(ctx context.Context, director *domain.Director) error {
	return r.db.WithContext(ctx).Create(director).Error
}

func (r *directorRepository) GetByID(ctx context.Context, id uint) (*domain.Director, error) {
	return findDirector(r.db.WithContext(ctx), id)
}

func (r *directorRepository) List(ctx context.Context) ([]*domain.Director, error) {
	var directors []*domain.Director
	err := r.db.WithContext(ctx).Order("id ASC").Find(&directors).Error
	if err != nil {
		return nil, err
	}
	return directors, nil
}

func (r *directorRepository) Update(ctx context.Context, id uint, params domain.UpdateDirectorParams) (*domain.Director, error) {
	var director *domain.Director
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		director, err = findDirector(tx, id)
		if err != nil {
			return err
		}

		if params.Name != nil {
			director.Name = *params.Name
		}
		if params.DOB != nil {
			director.DOB = datatypes.Date(*params.DOB)
		}
		if params.Nationality != nil {
			director.Nationality = *params.Nationality
		}

		return tx.Save(director).Error
	})
	if err != nil {
		return nil, err
	}
	return director, nil
}

// Delete refuses to remove a director that a movie still points at, since every
// movie must keep exactly one director.
func (r *directorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDirector(tx, id); err != nil {
			return err
		}

		var movies int64
		err := tx.Model(&domain.Movie{}).Where("director_id = ?", id).Count(&movies).Error
		if err != nil {
			return fmt.Errorf("failed to count movies for director: %w", err)
		}
		if movies > 0 {
			return domain.ErrDirectorInUse
		}

		return tx.Delete(&domain.Director{}, id).Error
	})
}

func (r *directorRepository) MovieIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Movie{}).
		Where("director_id = ?", id).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for director: %w", err)
	}
	return ids, nil
}

func findDirector(db *gorm.DB, id uint) (*domain.Director, error) {
	var director domain.Director
	if err := db.First(&director, id).Error; err != nil {
		return nil, notFound(err, domain.ErrDirectorNotFound)
	}
	return &director, nil
}
