package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/apperrors"
	"github.com/avsingh/catalogarr/internal/models"
)

// runJob processes one spooled CSV file end to end. The terminal status
// write must happen on every exit path, otherwise a failed run would stay
// in_progress forever.
func (r *Runner) runJob(ctx context.Context, job *models.UploadJob, path string) {
	defer os.Remove(path)

	var runErr error
	defer func() {
		if rec := recover(); rec != nil {
			runErr = fmt.Errorf("panic during ingestion: %v", rec)
		}
		r.finalize(job, runErr)
	}()

	runErr = r.processRows(ctx, job, path)
}

// processRows counts the rows, then decodes and flushes them in batches.
// Counting first costs one extra pass over the file but makes the progress
// percentage exact from the first flush.
//
// Failure policy: the first row that fails to decode, or the first batch
// that fails to insert, aborts the whole job. Rows flushed before the
// failure stay in the store and are reflected in UploadedRows.
func (r *Runner) processRows(ctx context.Context, job *models.UploadJob, path string) error {
	total, err := countRows(path)
	if err != nil {
		return err
	}

	job.TotalRows = total
	if err := r.store.UpdateUploadJob(job); err != nil {
		return fmt.Errorf("failed to record row count: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	reader := newCSVReader(file)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}

	batch := make([]*models.Movie, 0, r.batchSize)
	rowNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &apperrors.IngestError{Row: rowNum + 1, Err: err}
		}
		rowNum++

		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}

		movie, err := DecodeMovie(row)
		if err != nil {
			return &apperrors.IngestError{Row: rowNum, Err: err}
		}

		batch = append(batch, movie)
		if len(batch) == r.batchSize {
			if err := r.flush(job, batch); err != nil {
				return err
			}
			batch = batch[:0]

			// Cancellation is cooperative, checked between batches
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	if len(batch) > 0 {
		if err := r.flush(job, batch); err != nil {
			return err
		}
	}

	return nil
}

// flush inserts one batch and persists the updated progress
func (r *Runner) flush(job *models.UploadJob, batch []*models.Movie) error {
	if err := r.store.InsertMovies(batch); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	job.UploadedRows += len(batch)
	if job.TotalRows > 0 {
		job.Progress = float64(job.UploadedRows) / float64(job.TotalRows) * 100
	}

	if err := r.store.UpdateUploadJob(job); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"task_id":       job.TaskID,
		"uploaded_rows": job.UploadedRows,
		"total_rows":    job.TotalRows,
	}).Debug("Flushed batch")

	return nil
}

// finalize writes the terminal status for a run
func (r *Runner) finalize(job *models.UploadJob, runErr error) {
	if runErr != nil {
		job.Status = models.UploadStatusFailed
		job.Error = runErr.Error()
		r.logger.WithError(runErr).WithFields(logrus.Fields{
			"task_id":       job.TaskID,
			"uploaded_rows": job.UploadedRows,
		}).Error("Upload job failed")
	} else {
		job.Status = models.UploadStatusCompleted
		job.Progress = 100
		r.logger.WithFields(logrus.Fields{
			"task_id":       job.TaskID,
			"uploaded_rows": job.UploadedRows,
		}).Info("Upload job completed")
	}

	if err := r.store.UpdateUploadJob(job); err != nil {
		r.logger.WithError(err).WithField("task_id", job.TaskID).
			Error("Failed to write terminal upload status")
	}
}

// countRows returns the number of data rows in the CSV file at path,
// excluding the header.
func countRows(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	reader := newCSVReader(file)
	reader.ReuseRecord = true

	count := -1 // skip the header
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to scan csv: %w", err)
		}
		count++
	}

	if count < 0 {
		count = 0
	}
	return count, nil
}

func newCSVReader(file *os.File) *csv.Reader {
	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}
