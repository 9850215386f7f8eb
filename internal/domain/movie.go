package domain

import (
	"time"

	"github.com/dom/movie-catalog/internal/pagination"
)

// MovieGenresTable is the join table between movies and genres
const MovieGenresTable = "movie_genres"

type Movie struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"uniqueIndex;not null"`
	DetailID   uint      `json:"-" gorm:"not null;uniqueIndex"`
	DirectorID uint      `json:"directorId" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Detail   *MovieDetail `json:"detail,omitempty" gorm:"foreignKey:DetailID;constraint:OnDelete:RESTRICT"`
	Director *Director    `json:"director,omitempty" gorm:"foreignKey:DirectorID;constraint:OnDelete:RESTRICT"`
	Genres   []Genre      `json:"genres" gorm:"many2many:movie_genres"`
}

// MovieDetail is owned by exactly one movie and lives and dies with it.
type MovieDetail struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Detail string `json:"detail" gorm:"type:text;not null"`
}

// MovieFilter selects a page of movies
type MovieFilter struct {
	Title      string
	Pagination pagination.Params
}

// CreateMovieParams holds everything needed to insert a movie and its relations.
// GenreIDs is the complete genre set; it is empty only when the caller sent an
// explicitly empty list. Every id in it must resolve.
type CreateMovieParams struct {
	Title      string
	Detail     string
	DirectorID uint
	GenreIDs   []uint
}

// UpdateMovieParams carries a partial update. A non-nil GenreIDs replaces the
// whole genre set, so an empty slice removes every association.
type UpdateMovieParams struct {
	Title      *string
	Detail     *string
	DirectorID *uint
	GenreIDs   *[]uint
}
