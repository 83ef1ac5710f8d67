package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"

	"github.com/avsingh/catalogarr/internal/ingest"
	"github.com/avsingh/catalogarr/internal/models"
)

const maxUploadMemory = 32 << 20 // 32MB held in memory, the rest spills to disk

// UploadHandler handles CSV upload submission and progress polling
type UploadHandler struct {
	db        *models.Database
	runner    *ingest.Runner
	uploadDir string
	logger    *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *models.Database, runner *ingest.Runner, uploadDir string, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		db:        db,
		runner:    runner,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Upload handles POST /upload/upload_csv
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request, userEmail string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no selected file")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "invalid file format, please upload a CSV file")
		return
	}

	path, err := h.spool(file)
	if err != nil {
		h.logger.WithError(err).Error("Failed to spool upload")
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	taskID, err := h.runner.Submit(userEmail, header.Filename, path)
	if err != nil {
		os.Remove(path)
		h.logger.WithError(err).Error("Failed to submit upload job")
		writeError(w, http.StatusInternalServerError, "failed to start upload")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "CSV upload started",
		"task_id": taskID,
	})
}

// spool copies the uploaded file to the upload directory so the background
// worker can make two passes over it.
func (h *UploadHandler) spool(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp(h.uploadDir, "upload-*.csv")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

type progressResponse struct {
	Status       models.UploadStatus `json:"status"`
	Progress     float64             `json:"progress"`
	UploadedRows int                 `json:"uploaded_rows"`
	FileName     string              `json:"file_name"`
	Error        string              `json:"error,omitempty"`
}

// Progress handles GET /upload/upload_progress/<task_id>
func (h *UploadHandler) Progress(w http.ResponseWriter, r *http.Request, userEmail string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/upload/upload_progress/")
	if taskID == "" || strings.Contains(taskID, "/") {
		writeError(w, http.StatusNotFound, "upload task not found")
		return
	}

	job, err := h.db.GetUploadJobByTaskID(taskID)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			writeError(w, http.StatusNotFound, "upload task not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load upload job")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Status:       job.Status,
		Progress:     job.Progress,
		UploadedRows: job.UploadedRows,
		FileName:     job.FileName,
		Error:        job.Error,
	})
}
