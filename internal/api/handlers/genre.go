package handlers

import (
	"net/http"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"go.uber.org/zap"
)

type GenreHandler struct {
	genreService *service.GenreService
	logger       *zap.Logger
}

func NewGenreHandler(genreService *service.GenreService, logger *zap.Logger) *GenreHandler {
	return &GenreHandler{
		genreService: genreService,
		logger:       logger.Named("GenreHandler"),
	}
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toGenreResponses(genres []domain.Genre) []GenreResponse {
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return out
}

func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		resp = append(resp, GenreResponse{ID: g.ID, Name: g.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	genre, err := h.genreService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, GenreResponse{ID: genre.ID, Name: genre.Name})
}

func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	genre, err := h.genreService.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, GenreResponse{ID: genre.ID, Name: genre.Name})
}

func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req GenreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	genre, err := h.genreService.Update(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, GenreResponse{ID: genre.ID, Name: genre.Name})
}

func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.genreService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: deleted})
}
