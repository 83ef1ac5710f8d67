package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/models"
	"github.com/avsingh/catalogarr/internal/services/catalog"
)

// MovieHandler handles catalog listing and single-record requests
type MovieHandler struct {
	catalog *catalog.Service
	logger  *logrus.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(catalogSvc *catalog.Service, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		catalog: catalogSvc,
		logger:  logger,
	}
}

type movieListResponse struct {
	Movies     []*models.Movie     `json:"movies"`
	Pagination *catalog.Pagination `json:"pagination"`
}

// Handle routes /movies/ requests: the bare path lists the catalog,
// a trailing show_id addresses one record.
func (h *MovieHandler) Handle(w http.ResponseWriter, r *http.Request, userEmail string) {
	showID := strings.TrimPrefix(r.URL.Path, "/movies/")
	if showID == "" {
		h.List(w, r, userEmail)
		return
	}
	if strings.Contains(showID, "/") {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, showID)
	case http.MethodPut:
		h.update(w, r, showID)
	case http.MethodDelete:
		h.delete(w, showID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// List handles GET /movies/
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request, userEmail string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sortOrder := r.URL.Query().Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}

	params := catalog.ListParams{
		Page:      intQuery(r, "page", 1),
		PerPage:   intQuery(r, "per_page", 20),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: sortOrder,
	}

	movies, pagination, err := h.catalog.List(params)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if movies == nil {
		movies = []*models.Movie{}
	}

	writeJSON(w, http.StatusOK, movieListResponse{
		Movies:     movies,
		Pagination: pagination,
	})
}

func (h *MovieHandler) get(w http.ResponseWriter, showID string) {
	movie, err := h.catalog.Get(showID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) update(w http.ResponseWriter, r *http.Request, showID string) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The path, not the body, identifies the record
	movie.ShowID = showID

	if err := h.catalog.Update(&movie); err != nil {
		h.respondServiceError(w, err, "Failed to update movie")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Movie updated successfully"})
}

func (h *MovieHandler) delete(w http.ResponseWriter, showID string) {
	if err := h.catalog.Delete(showID); err != nil {
		h.respondServiceError(w, err, "Failed to delete movie")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Movie deleted successfully"})
}

func (h *MovieHandler) respondServiceError(w http.ResponseWriter, err error, logMessage string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error(logMessage)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func intQuery(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
