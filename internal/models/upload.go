package models

import "time"

// UploadJob tracks one bulk CSV ingestion run. It is created before any row
// is processed so that clients can poll immediately after submission, and is
// only ever written by the worker that owns the run.
type UploadJob struct {
	TaskID string `boltholdKey:"TaskID"`

	UserEmail string `boltholdIndex:"UserEmail"` // Owner of the upload
	FileName  string

	Status   UploadStatus `boltholdIndex:"Status"`
	Progress float64      // 0-100

	TotalRows    int
	UploadedRows int // Rows flushed to the store, monotonically non-decreasing

	// Failure reason when Status is failed
	Error string

	CreatedAt time.Time
	UpdatedAt time.Time
}
