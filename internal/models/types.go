package models

// UploadStatus represents the current state of a bulk upload job
type UploadStatus string

const (
	UploadStatusInProgress UploadStatus = "in_progress"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
)
