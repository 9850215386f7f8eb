package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository/postgres"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDirectorService(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewDirectorService(repos.Director, newMemoryCache(), zap.NewNop())
	ctx := context.Background()

	director, err := svc.Create(ctx, service.CreateDirectorInput{
		Name:        "Agnes Varda",
		DOB:         time.Date(1928, time.May, 30, 0, 0, 0, 0, time.UTC),
		Nationality: "French",
	})
	require.NoError(t, err)

	name := "Agnès Varda"
	updated, err := svc.Update(ctx, director.ID, domain.UpdateDirectorParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Agnès Varda", updated.Name)
	assert.Equal(t, "French", updated.Nationality)

	testutil.NewMovieBuilder().WithDirector(director).Build(t, testDB.DB)
	_, err = svc.Delete(ctx, director.ID)
	assert.ErrorIs(t, err, domain.ErrDirectorInUse)
}

func TestGenreService(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewGenreService(repos.Genre, newMemoryCache(), zap.NewNop())
	ctx := context.Background()

	genre, err := svc.Create(ctx, "  Musical  ")
	require.NoError(t, err)
	assert.Equal(t, "Musical", genre.Name)

	_, err = svc.Create(ctx, "Musical")
	assert.ErrorIs(t, err, domain.ErrGenreNameExists)

	genres, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)

	id, err := svc.Delete(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, genre.ID, id)

	_, err = svc.Get(ctx, genre.ID)
	assert.ErrorIs(t, err, domain.ErrGenreNotFound)
}

func TestCatalogWrites_EvictCachedMovies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, svcs *service.Services, director *domain.Director, genre *domain.Genre)
		check  func(t *testing.T, movie *domain.Movie, genre *domain.Genre)
	}{
		{
			name: "genre deleted",
			mutate: func(t *testing.T, svcs *service.Services, _ *domain.Director, genre *domain.Genre) {
				_, err := svcs.Genre.Delete(context.Background(), genre.ID)
				require.NoError(t, err)
			},
			check: func(t *testing.T, movie *domain.Movie, _ *domain.Genre) {
				assert.Empty(t, movie.Genres)
			},
		},
		{
			name: "genre renamed",
			mutate: func(t *testing.T, svcs *service.Services, _ *domain.Director, genre *domain.Genre) {
				_, err := svcs.Genre.Update(context.Background(), genre.ID, "Neo-noir")
				require.NoError(t, err)
			},
			check: func(t *testing.T, movie *domain.Movie, genre *domain.Genre) {
				require.Len(t, movie.Genres, 1)
				assert.Equal(t, genre.ID, movie.Genres[0].ID)
				assert.Equal(t, "Neo-noir", movie.Genres[0].Name)
			},
		},
		{
			name: "director renamed",
			mutate: func(t *testing.T, svcs *service.Services, director *domain.Director, _ *domain.Genre) {
				name := "Bong Joon Ho"
				_, err := svcs.Director.Update(context.Background(), director.ID, domain.UpdateDirectorParams{Name: &name})
				require.NoError(t, err)
			},
			check: func(t *testing.T, movie *domain.Movie, _ *domain.Genre) {
				require.NotNil(t, movie.Director)
				assert.Equal(t, "Bong Joon Ho", movie.Director.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB := testutil.NewTestDB(t)
			repos := postgres.NewRepositories(testDB.DB)
			c := newMemoryCache()
			svcs := service.NewServices(repos, testutil.TestConfig(), zap.NewNop(), service.Deps{Cache: c})
			ctx := context.Background()

			director := testutil.NewDirectorBuilder().WithName("Bong Joon-ho").Build(t, testDB.DB)
			genre := testutil.NewGenreBuilder().WithName("Thriller").Build(t, testDB.DB)
			movie := testutil.NewMovieBuilder().WithDirector(director).WithGenres(genre).Build(t, testDB.DB)
			untouched := testutil.NewMovieBuilder().Build(t, testDB.DB)

			_, err := svcs.Movie.Get(ctx, movie.ID)
			require.NoError(t, err)
			_, err = svcs.Movie.Get(ctx, untouched.ID)
			require.NoError(t, err)

			tt.mutate(t, svcs, director, genre)

			_, cached := c.Get(ctx, movie.ID)
			assert.False(t, cached, "affected movie should be evicted")
			_, cached = c.Get(ctx, untouched.ID)
			assert.True(t, cached, "unrelated movie should stay cached")

			reloaded, err := svcs.Movie.Get(ctx, movie.ID)
			require.NoError(t, err)
			tt.check(t, reloaded, genre)
		})
	}
}
