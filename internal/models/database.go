package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// User operations

// CreateUser inserts a new user, keyed by email.
// Returns bolthold.ErrKeyExists if the email is already registered.
func (db *Database) CreateUser(user *User) error {
	return db.store.Insert(user.Email, user)
}

// GetUserByEmail retrieves a user by email
func (db *Database) GetUserByEmail(email string) (*User, error) {
	var user User
	err := db.store.Get(email, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user record
func (db *Database) UpdateUser(user *User) error {
	return db.store.Update(user.Email, user)
}

// Movie operations

// InsertMovies writes a batch of movies in a single bolt transaction,
// keyed by ShowID. Re-ingesting a known ShowID overwrites the record
// rather than duplicating it.
func (db *Database) InsertMovies(movies []*Movie) error {
	now := time.Now()
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		for _, movie := range movies {
			movie.CreatedAt = now
			movie.UpdatedAt = now
			if err := db.store.TxUpsert(tx, movie.ShowID, movie); err != nil {
				return fmt.Errorf("failed to insert movie %s: %w", movie.ShowID, err)
			}
		}
		return nil
	})
}

// GetMovies retrieves one page of movies sorted by the given struct field
func (db *Database) GetMovies(sortField string, descending bool, skip, limit int) ([]*Movie, error) {
	query := (&bolthold.Query{}).SortBy(sortField).Skip(skip).Limit(limit)
	if descending {
		query = query.Reverse()
	}

	var movies []*Movie
	err := db.store.Find(&movies, query)
	return movies, err
}

// GetMovieByShowID retrieves a single movie by its external key
func (db *Database) GetMovieByShowID(showID string) (*Movie, error) {
	var movie Movie
	err := db.store.Get(showID, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateMovie updates an existing movie record
func (db *Database) UpdateMovie(movie *Movie) error {
	movie.UpdatedAt = time.Now()
	return db.store.Update(movie.ShowID, movie)
}

// DeleteMovie deletes a movie by its external key
func (db *Database) DeleteMovie(showID string) error {
	return db.store.Delete(showID, &Movie{})
}

// CountMovies returns the total number of movies in the catalog
func (db *Database) CountMovies() (int, error) {
	return db.store.Count(&Movie{}, nil)
}

// Upload job operations

// CreateUploadJob persists a new upload job record
func (db *Database) CreateUploadJob(job *UploadJob) error {
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	return db.store.Insert(job.TaskID, job)
}

// UpdateUploadJob updates an existing upload job record
func (db *Database) UpdateUploadJob(job *UploadJob) error {
	job.UpdatedAt = time.Now()
	return db.store.Update(job.TaskID, job)
}

// GetUploadJobByTaskID retrieves an upload job by its task ID
func (db *Database) GetUploadJobByTaskID(taskID string) (*UploadJob, error) {
	var job UploadJob
	err := db.store.Get(taskID, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetStaleUploadJobs retrieves jobs still marked in_progress whose last
// update is older than the cutoff. These are runs whose worker died before
// finalizing.
func (db *Database) GetStaleUploadJobs(cutoff time.Time) ([]*UploadJob, error) {
	var jobs []*UploadJob
	err := db.store.Find(&jobs,
		bolthold.Where("Status").Eq(UploadStatusInProgress).
			And("UpdatedAt").Lt(cutoff))
	return jobs, err
}
