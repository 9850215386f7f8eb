package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/movie-catalog/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *movieRepository {
	return &movieRepository{db: db}
}

// List returns one page of movies with director and genres, plus the number
// of movies matching the title filter regardless of the page.
func (r *movieRepository) List(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Movie{})
		if filter.Title != "" {
			q = q.Where("title LIKE ?", "%"+filter.Title+"%")
		}
		return q
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	var movies []*domain.Movie
	err := filtered().
		Preload("Director").
		Preload("Genres").
		Scopes(filter.Pagination.Scope).
		Find(&movies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}

	return movies, count, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id uint) (*domain.Movie, error) {
	var movie domain.Movie
	if err := loadMovie(r.db.WithContext(ctx), id, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, params domain.CreateMovieParams) (*domain.Movie, error) {
	var movie domain.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		director, err := findDirector(tx, params.DirectorID)
		if err != nil {
			return err
		}

		genres, err := findGenres(tx, params.GenreIDs)
		if err != nil {
			return err
		}

		if err := ensureTitleFree(tx, params.Title, 0); err != nil {
			return err
		}

		detail := domain.MovieDetail{Detail: params.Detail}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("failed to create movie detail: %w", err)
		}

		created := domain.Movie{
			Title:      params.Title,
			DetailID:   detail.ID,
			DirectorID: director.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			return translateMovieError(err)
		}

		if len(genres) > 0 {
			if err := tx.Model(&created).Association("Genres").Append(genres); err != nil {
				return fmt.Errorf("failed to attach genres: %w", err)
			}
		}

		return loadMovie(tx, created.ID, &movie)
	})
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Update(ctx context.Context, id uint, params domain.UpdateMovieParams) (*domain.Movie, error) {
	var movie domain.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Movie
		if err := tx.Preload("Detail").First(&existing, id).Error; err != nil {
			return notFound(err, domain.ErrMovieNotFound)
		}
		if existing.Detail == nil {
			return fmt.Errorf("movie %d has no detail record", id)
		}

		updates := map[string]interface{}{}

		if params.Title != nil && *params.Title != existing.Title {
			if err := ensureTitleFree(tx, *params.Title, existing.ID); err != nil {
				return err
			}
			updates["title"] = *params.Title
		}

		if params.DirectorID != nil {
			director, err := findDirector(tx, *params.DirectorID)
			if err != nil {
				return err
			}
			updates["director_id"] = director.ID
		}

		var genres []domain.Genre
		if params.GenreIDs != nil {
			var err error
			genres, err = findGenres(tx, *params.GenreIDs)
			if err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&existing).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return translateMovieError(err)
			}
		}

		if params.Detail != nil {
			err := tx.Model(existing.Detail).Update("detail", *params.Detail).Error
			if err != nil {
				return fmt.Errorf("failed to update movie detail: %w", err)
			}
		}

		if params.GenreIDs != nil {
			assoc := tx.Model(&existing).Association("Genres")
			var err error
			if len(genres) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(genres)
			}
			if err != nil {
				return fmt.Errorf("failed to replace genres: %w", err)
			}
		}

		return loadMovie(tx, id, &movie)
	})
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes the movie, its genre associations and its detail record.
// Director and genres are left in place.
func (r *movieRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie domain.Movie
		if err := tx.First(&movie, id).Error; err != nil {
			return notFound(err, domain.ErrMovieNotFound)
		}

		if err := tx.Model(&movie).Association("Genres").Clear(); err != nil {
			return fmt.Errorf("failed to clear genres: %w", err)
		}
		if err := tx.Delete(&domain.Movie{}, movie.ID).Error; err != nil {
			return fmt.Errorf("failed to delete movie: %w", err)
		}
		if err := tx.Delete(&domain.MovieDetail{}, movie.DetailID).Error; err != nil {
			return fmt.Errorf("failed to delete movie detail: %w", err)
		}
		return nil
	})
}

func loadMovie(db *gorm.DB, id uint, dest *domain.Movie) error {
	err := db.
		Preload("Detail").
		Preload("Director").
		Preload("Genres").
		First(dest, id).Error
	return notFound(err, domain.ErrMovieNotFound)
}

func ensureTitleFree(db *gorm.DB, title string, exceptID uint) error {
	var count int64
	err := db.Model(&domain.Movie{}).
		Where("title = ? AND id <> ?", title, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrMovieTitleExists
	}
	return nil
}

func translateMovieError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrMovieTitleExists
	}
	return err
}
