package repository

import (
	"context"

	"github.com/dom/movie-catalog/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type DirectorRepository interface {
	Create(ctx context.Context, director *domain.Director) error
	GetByID(ctx context.Context, id uint) (*domain.Director, error)
	List(ctx context.Context) ([]*domain.Director, error)
	Update(ctx context.Context, id uint, params domain.UpdateDirectorParams) (*domain.Director, error)
	Delete(ctx context.Context, id uint) error
	MovieIDs(ctx context.Context, id uint) ([]uint, error)
}

type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	GetByID(ctx context.Context, id uint) (*domain.Genre, error)
	List(ctx context.Context) ([]*domain.Genre, error)
	Update(ctx context.Context, id uint, name string) (*domain.Genre, error)
	// Delete returns the ids of the movies the genre was detached from.
	Delete(ctx context.Context, id uint) ([]uint, error)
	MovieIDs(ctx context.Context, id uint) ([]uint, error)
}

// MovieRepository writes a movie together with its detail, director reference
// and genre set as one unit: Create, Update and Delete either apply completely
// or leave the store untouched.
type MovieRepository interface {
	List(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, int64, error)
	GetByID(ctx context.Context, id uint) (*domain.Movie, error)
	Create(ctx context.Context, params domain.CreateMovieParams) (*domain.Movie, error)
	Update(ctx context.Context, id uint, params domain.UpdateMovieParams) (*domain.Movie, error)
	Delete(ctx context.Context, id uint) error
}

type Repositories struct {
	User     UserRepository
	Director DirectorRepository
	Genre    GenreRepository
	Movie    MovieRepository
}
