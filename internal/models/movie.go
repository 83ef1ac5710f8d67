package models

import "time"

// Movie represents a single catalog record, one row of the imported dataset.
type Movie struct {
	ShowID string `boltholdKey:"ShowID" json:"show_id"` // Unique external key from the dataset

	MovieType string   `json:"type"` // "movie" or "show"
	Title     string   `json:"title"`
	Director  string   `json:"director"`
	Cast      []string `json:"cast"`
	Country   string   `json:"country"`

	DateAdded   time.Time `boltholdIndex:"DateAdded" json:"date_added"`
	ReleaseYear int       `boltholdIndex:"ReleaseYear" json:"release_year"`
	Rating      string    `json:"rating"`
	Duration    string    `json:"duration"` // Free-form, e.g. "106 min" or "2 Seasons"
	ListedIn    []string  `json:"listed_in"`
	Description string    `json:"description"`

	// Metadata
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
