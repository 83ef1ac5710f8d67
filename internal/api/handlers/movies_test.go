package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avsingh/catalogarr/internal/api/middleware"
	"github.com/avsingh/catalogarr/internal/models"
)

func seedMovies(t *testing.T, env *testEnv, n int) {
	t.Helper()

	movies := make([]*models.Movie, 0, n)
	base := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		movies = append(movies, &models.Movie{
			ShowID:    fmt.Sprintf("s%d", i),
			Title:     fmt.Sprintf("Title %d", i),
			DateAdded: base.AddDate(0, 0, i),
		})
	}
	if err := env.db.InsertMovies(movies); err != nil {
		t.Fatalf("Failed to seed movies: %v", err)
	}
}

func TestMovieListPagination(t *testing.T) {
	env := newTestEnv(t)
	seedMovies(t, env, 45)
	handler := NewMovieHandler(env.catalog, env.logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movies/?page=1&per_page=20", nil)
	handler.List(rec, req, "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp movieListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Movies) != 20 {
		t.Errorf("Expected 20 movies, got %d", len(resp.Movies))
	}
	if resp.Pagination.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", resp.Pagination.TotalPages)
	}
	if resp.Pagination.TotalMovies != 45 {
		t.Errorf("Expected 45 total movies, got %d", resp.Pagination.TotalMovies)
	}
}

func TestMovieListEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	handler := NewMovieHandler(env.catalog, env.logger)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/movies/", nil), "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp movieListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Movies == nil {
		t.Error("Expected an empty movies array, not null")
	}
}

func TestMovieListDefaultSortOrderIsAscending(t *testing.T) {
	env := newTestEnv(t)
	seedMovies(t, env, 5)
	handler := NewMovieHandler(env.catalog, env.logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movies/?sort_by=date_added", nil)
	handler.List(rec, req, "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp movieListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Movies) == 0 {
		t.Fatal("Expected movies in response")
	}
	if resp.Movies[0].ShowID != "s1" {
		t.Errorf("Expected oldest movie first without sort_order, got %s", resp.Movies[0].ShowID)
	}
}

func TestMovieRecordOperations(t *testing.T) {
	env := newTestEnv(t)
	seedMovies(t, env, 3)
	handler := NewMovieHandler(env.catalog, env.logger)

	// Fetch one record
	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/movies/s2", nil), "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for GET, got %d", rec.Code)
	}
	var movie models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &movie); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if movie.Title != "Title 2" {
		t.Errorf("Expected Title 2, got %s", movie.Title)
	}

	// Update it
	movie.Title = "Renamed"
	body, _ := json.Marshal(movie)
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/movies/s2", bytes.NewReader(body))
	handler.Handle(rec, req, "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for PUT, got %d", rec.Code)
	}
	updated, err := env.db.GetMovieByShowID("s2")
	if err != nil {
		t.Fatalf("Failed to reload movie: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Expected updated title, got %s", updated.Title)
	}

	// Delete it
	rec = httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodDelete, "/movies/s2", nil), "user@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for DELETE, got %d", rec.Code)
	}
	if _, err := env.db.GetMovieByShowID("s2"); err == nil {
		t.Error("Expected movie to be gone after delete")
	}

	// Unknown records are 404s
	rec = httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/movies/nope", nil), "user@example.com")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown show ID, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodDelete, "/movies/nope", nil), "user@example.com")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting unknown show ID, got %d", rec.Code)
	}
}

func TestMovieRecordMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	seedMovies(t, env, 1)
	handler := NewMovieHandler(env.catalog, env.logger)

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/movies/s1", nil), "user@example.com")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST on a record, got %d", rec.Code)
	}
}

func TestMovieListRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	handler := NewMovieHandler(env.catalog, env.logger)
	guarded := middleware.Auth(env.tokens, env.logger, handler.List)

	// No Authorization header
	rec := httptest.NewRecorder()
	guarded(rec, httptest.NewRequest(http.MethodGet, "/movies/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	// Garbage token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movies/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	guarded(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for garbage token, got %d", rec.Code)
	}

	// Valid token
	token, err := env.tokens.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/movies/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	guarded(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d", rec.Code)
	}
}
