package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/domain"
	repoPostgres "github.com/dom/movie-catalog/internal/repository/postgres"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// TokenResponse matches the login response
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate stores the user and logs in through the API
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, TokenResponse) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.Email, password)
}

// Login posts Basic credentials to /auth/login and returns the token pair
func Login(t *testing.T, ts *TestServer, email, password string) TokenResponse {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.APIURL("/auth/login"), nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", auth.EncodeBasic(email, password))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return tokens
}

// DirectorBuilder creates test directors
type DirectorBuilder struct {
	name        string
	dob         time.Time
	nationality string
}

func NewDirectorBuilder() *DirectorBuilder {
	return &DirectorBuilder{
		name:        fmt.Sprintf("Director %s", uuid.New().String()[:8]),
		dob:         time.Date(1969, time.September, 14, 0, 0, 0, 0, time.UTC),
		nationality: "Korean",
	}
}

func (b *DirectorBuilder) WithName(name string) *DirectorBuilder {
	b.name = name
	return b
}

func (b *DirectorBuilder) WithNationality(nationality string) *DirectorBuilder {
	b.nationality = nationality
	return b
}

// Build creates the director in the database
func (b *DirectorBuilder) Build(t *testing.T, db *gorm.DB) *domain.Director {
	t.Helper()

	director := &domain.Director{
		Name:        b.name,
		DOB:         datatypes.Date(b.dob),
		Nationality: b.nationality,
	}
	if err := db.Create(director).Error; err != nil {
		t.Fatalf("failed to create director: %v", err)
	}
	return director
}

// GenreBuilder creates test genres
type GenreBuilder struct {
	name string
}

func NewGenreBuilder() *GenreBuilder {
	return &GenreBuilder{name: fmt.Sprintf("genre-%s", uuid.New().String()[:8])}
}

func (b *GenreBuilder) WithName(name string) *GenreBuilder {
	b.name = name
	return b
}

// Build creates the genre in the database
func (b *GenreBuilder) Build(t *testing.T, db *gorm.DB) *domain.Genre {
	t.Helper()

	genre := &domain.Genre{Name: b.name}
	if err := db.Create(genre).Error; err != nil {
		t.Fatalf("failed to create genre: %v", err)
	}
	return genre
}

// MovieBuilder creates movies through the movie repository so the detail and
// genre rows are written the same way the API writes them.
type MovieBuilder struct {
	title    string
	detail   string
	director *domain.Director
	genres   []*domain.Genre
}

func NewMovieBuilder() *MovieBuilder {
	return &MovieBuilder{
		title:  fmt.Sprintf("Movie %s", uuid.New().String()[:8]),
		detail: "A test movie.",
	}
}

func (b *MovieBuilder) WithTitle(title string) *MovieBuilder {
	b.title = title
	return b
}

func (b *MovieBuilder) WithDetail(detail string) *MovieBuilder {
	b.detail = detail
	return b
}

func (b *MovieBuilder) WithDirector(director *domain.Director) *MovieBuilder {
	b.director = director
	return b
}

func (b *MovieBuilder) WithGenres(genres ...*domain.Genre) *MovieBuilder {
	b.genres = genres
	return b
}

// Build creates the movie, creating a director when none was given
func (b *MovieBuilder) Build(t *testing.T, db *gorm.DB) *domain.Movie {
	t.Helper()

	if b.director == nil {
		b.director = NewDirectorBuilder().Build(t, db)
	}

	genreIDs := make([]uint, 0, len(b.genres))
	for _, g := range b.genres {
		genreIDs = append(genreIDs, g.ID)
	}

	movie, err := repoPostgres.NewMovieRepository(db).Create(context.Background(), domain.CreateMovieParams{
		Title:      b.title,
		Detail:     b.detail,
		DirectorID: b.director.ID,
		GenreIDs:   genreIDs,
	})
	if err != nil {
		t.Fatalf("failed to create movie: %v", err)
	}
	return movie
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends the request and registers the body for closing
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() {
		resp.Body.Close()
	})
	return resp
}
