// Package ingest implements the CSV bulk-ingestion pipeline: row decoding,
// batched writes to the store and persisted progress tracking.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/avsingh/catalogarr/internal/apperrors"
	"github.com/avsingh/catalogarr/internal/models"
)

// dateAddedLayout is the textual date format used by the dataset,
// e.g. "September 2, 2021".
const dateAddedLayout = "January 2, 2006"

// requiredColumns are the CSV columns that must be present and non-empty
// for a row to decode. The remaining columns may be empty.
var requiredColumns = []string{"show_id", "type", "title", "date_added", "release_year"}

// DecodeMovie converts one raw CSV row into a validated Movie. It is a pure
// function: deterministic, no side effects, no I/O.
func DecodeMovie(row map[string]string) (*models.Movie, error) {
	for _, column := range requiredColumns {
		if strings.TrimSpace(row[column]) == "" {
			return nil, &apperrors.ValidationError{Field: column, Reason: "missing"}
		}
	}

	dateAdded, err := time.Parse(dateAddedLayout, strings.TrimSpace(row["date_added"]))
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "date_added", Reason: "expected format 'Month D, YYYY'"}
	}

	releaseYear, err := strconv.Atoi(strings.TrimSpace(row["release_year"]))
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "release_year", Reason: "not a number"}
	}

	return &models.Movie{
		ShowID:      strings.TrimSpace(row["show_id"]),
		MovieType:   strings.TrimSpace(row["type"]),
		Title:       strings.TrimSpace(row["title"]),
		Director:    strings.TrimSpace(row["director"]),
		Cast:        splitList(row["cast"]),
		Country:     strings.TrimSpace(row["country"]),
		DateAdded:   dateAdded,
		ReleaseYear: releaseYear,
		Rating:      strings.TrimSpace(row["rating"]),
		Duration:    strings.TrimSpace(row["duration"]),
		ListedIn:    splitList(row["listed_in"]),
		Description: strings.TrimSpace(row["description"]),
	}, nil
}

// splitList splits a comma-separated field into trimmed elements,
// dropping empty ones.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	elements := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			elements = append(elements, trimmed)
		}
	}
	return elements
}
