package handlers

import (
	"net/http"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type DirectorHandler struct {
	directorService *service.DirectorService
	logger          *zap.Logger
}

func NewDirectorHandler(directorService *service.DirectorService, logger *zap.Logger) *DirectorHandler {
	return &DirectorHandler{
		directorService: directorService,
		logger:          logger.Named("DirectorHandler"),
	}
}

type CreateDirectorRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	DOB         string `json:"dob" validate:"required,datetime=2006-01-02"`
	Nationality string `json:"nationality" validate:"required,max=100"`
}

type UpdateDirectorRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	DOB         *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Nationality *string `json:"nationality" validate:"omitempty,min=1,max=100"`
}

type DirectorResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
}

func toDirectorResponse(d *domain.Director) *DirectorResponse {
	if d == nil {
		return nil
	}
	return &DirectorResponse{
		ID:          d.ID,
		Name:        d.Name,
		DOB:         time.Time(d.DOB).Format(dateLayout),
		Nationality: d.Nationality,
	}
}

func (h *DirectorHandler) List(w http.ResponseWriter, r *http.Request) {
	directors, err := h.directorService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]*DirectorResponse, 0, len(directors))
	for _, d := range directors {
		resp = append(resp, toDirectorResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DirectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	director, err := h.directorService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDirectorResponse(director))
}

func (h *DirectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDirectorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// already checked by the datetime tag
	dob, _ := time.Parse(dateLayout, req.DOB)

	director, err := h.directorService.Create(r.Context(), service.CreateDirectorInput{
		Name:        req.Name,
		DOB:         dob,
		Nationality: req.Nationality,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDirectorResponse(director))
}

func (h *DirectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateDirectorRequest
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := domain.UpdateDirectorParams{
		Name:        req.Name,
		Nationality: req.Nationality,
	}
	if req.DOB != nil {
		dob, _ := time.Parse(dateLayout, *req.DOB)
		params.DOB = &dob
	}

	director, err := h.directorService.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDirectorResponse(director))
}

func (h *DirectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.directorService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: deleted})
}
