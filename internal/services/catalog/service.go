// Package catalog implements paginated, sorted listing of catalog records.
package catalog

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"

	"github.com/avsingh/catalogarr/internal/apperrors"
	"github.com/avsingh/catalogarr/internal/models"
)

// sortFields maps query-string sort keys to Movie struct fields. Unknown
// keys fall back to date_added.
var sortFields = map[string]string{
	"date_added":   "DateAdded",
	"release_year": "ReleaseYear",
	"duration":     "Duration",
	"title":        "Title",
}

const defaultSortField = "DateAdded"

// ListParams are the pagination and sorting parameters for a catalog listing
type ListParams struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// Pagination describes one page of results
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalMovies int `json:"total_movies"`
}

// Service answers catalog queries
type Service struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(db *models.Database, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// List returns one page of movies plus pagination metadata
func (s *Service) List(params ListParams) ([]*models.Movie, *Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 20
	}

	field, ok := sortFields[params.SortBy]
	if !ok {
		field = defaultSortField
	}
	descending := params.SortOrder != "asc"

	skip := (params.Page - 1) * params.PerPage
	movies, err := s.db.GetMovies(field, descending, skip, params.PerPage)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.db.CountMovies()
	if err != nil {
		return nil, nil, err
	}

	totalPages := total / params.PerPage
	if total%params.PerPage != 0 {
		totalPages++
	}

	return movies, &Pagination{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalMovies: total,
	}, nil
}

// Get returns a single movie by its external key
func (s *Service) Get(showID string) (*models.Movie, error) {
	movie, err := s.db.GetMovieByShowID(showID)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}

// Update replaces an existing movie record
func (s *Service) Update(movie *models.Movie) error {
	if movie.ShowID == "" {
		return &apperrors.ValidationError{Field: "show_id", Reason: "missing"}
	}
	if err := s.db.UpdateMovie(movie); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie by its external key
func (s *Service) Delete(showID string) error {
	if err := s.db.DeleteMovie(showID); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return nil
}
