package handlers

import (
	"net/http"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/pagination"
	"github.com/dom/movie-catalog/internal/service"
	"go.uber.org/zap"
)

type MovieHandler struct {
	movieService *service.MovieService
	logger       *zap.Logger
}

func NewMovieHandler(movieService *service.MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		logger:       logger.Named("MovieHandler"),
	}
}

// CreateMovieRequest requires genreIds to be present. An empty array creates
// a movie without genres.
type CreateMovieRequest struct {
	Title      string  `json:"title" validate:"required,max=255"`
	Detail     string  `json:"detail" validate:"required"`
	DirectorID uint    `json:"directorId" validate:"required,gt=0"`
	GenreIDs   *[]uint `json:"genreIds" validate:"required,unique,dive,gt=0"`
}

// UpdateMovieRequest fields are optional. A present genreIds replaces the
// whole genre set; an empty array removes every genre.
type UpdateMovieRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=255"`
	Detail     *string `json:"detail" validate:"omitempty,min=1"`
	DirectorID *uint   `json:"directorId" validate:"omitempty,gt=0"`
	GenreIDs   *[]uint `json:"genreIds" validate:"omitempty,unique,dive,gt=0"`
}

type MovieResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Detail    string            `json:"detail,omitempty"`
	Director  *DirectorResponse `json:"director"`
	Genres    []GenreResponse   `json:"genres"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type MovieListResponse struct {
	Data       []MovieResponse `json:"data"`
	Count      int64           `json:"count"`
	NextCursor *uint           `json:"nextCursor,omitempty"`
}

func toMovieResponse(m *domain.Movie) MovieResponse {
	resp := MovieResponse{
		ID:        m.ID,
		Title:     m.Title,
		Director:  toDirectorResponse(m.Director),
		Genres:    toGenreResponses(m.Genres),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Detail != nil {
		resp.Detail = m.Detail.Detail
	}
	return resp
}

// List supports ?title= and either ?page=&take= or ?order=&id=&take=.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.movieService.List(r.Context(), domain.MovieFilter{
		Title:      r.URL.Query().Get("title"),
		Pagination: params,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := MovieListResponse{
		Data:  make([]MovieResponse, 0, len(page.Movies)),
		Count: page.Count,
	}
	for _, m := range page.Movies {
		resp.Data = append(resp.Data, toMovieResponse(m))
	}
	if params.IsCursor() && len(page.Movies) > 0 && len(page.Movies) == params.Take() {
		last := page.Movies[len(page.Movies)-1].ID
		resp.NextCursor = &last
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.movieService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.movieService.Create(r.Context(), domain.CreateMovieParams{
		Title:      req.Title,
		Detail:     req.Detail,
		DirectorID: req.DirectorID,
		GenreIDs:   *req.GenreIDs,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateMovieRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.movieService.Update(r.Context(), id, domain.UpdateMovieParams{
		Title:      req.Title,
		Detail:     req.Detail,
		DirectorID: req.DirectorID,
		GenreIDs:   req.GenreIDs,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.movieService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: deleted})
}
