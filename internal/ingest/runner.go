package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/models"
)

// Store is the subset of store operations the ingestion pipeline needs.
type Store interface {
	CreateUploadJob(job *models.UploadJob) error
	UpdateUploadJob(job *models.UploadJob) error
	InsertMovies(movies []*models.Movie) error
}

// task is one submitted upload waiting for a worker.
type task struct {
	job  *models.UploadJob
	path string
}

// Runner executes upload jobs on a bounded pool of background workers so
// that submission and progress polling stay responsive while a large file
// is being ingested.
type Runner struct {
	store       Store
	batchSize   int
	workerCount int
	logger      *logrus.Logger

	tasks chan task
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewRunner creates a new ingestion runner
func NewRunner(store Store, batchSize, workerCount int, logger *logrus.Logger) *Runner {
	return &Runner{
		store:       store,
		batchSize:   batchSize,
		workerCount: workerCount,
		logger:      logger,
		tasks:       make(chan task, workerCount*2),
		done:        make(chan struct{}),
	}
}

// Start launches the background workers
func (r *Runner) Start(ctx context.Context) {
	r.logger.WithField("worker_count", r.workerCount).Info("Starting ingestion workers")

	for i := 0; i < r.workerCount; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}
}

// Stop rejects further submissions and waits for in-flight jobs to finish
func (r *Runner) Stop() {
	r.logger.Info("Stopping ingestion workers")
	close(r.done)
	r.wg.Wait()
	r.logger.Info("Ingestion workers stopped")
}

// Submit registers a new upload job for the spooled CSV file at path and
// queues it for processing. The job record is persisted before Submit
// returns, so a client can poll the task ID immediately.
func (r *Runner) Submit(userEmail, fileName, path string) (string, error) {
	select {
	case <-r.done:
		return "", fmt.Errorf("ingestion runner is stopped")
	default:
	}

	job := &models.UploadJob{
		TaskID:    uuid.New().String(),
		UserEmail: userEmail,
		FileName:  fileName,
		Status:    models.UploadStatusInProgress,
	}

	if err := r.store.CreateUploadJob(job); err != nil {
		return "", fmt.Errorf("failed to create upload job: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"task_id":   job.TaskID,
		"file_name": fileName,
		"user":      userEmail,
	}).Info("Upload job submitted")

	select {
	case r.tasks <- task{job: job, path: path}:
		return job.TaskID, nil
	case <-r.done:
		job.Status = models.UploadStatusFailed
		job.Error = "server shutting down"
		if err := r.store.UpdateUploadJob(job); err != nil {
			r.logger.WithError(err).WithField("task_id", job.TaskID).Warn("Failed to mark rejected job")
		}
		return "", fmt.Errorf("ingestion runner is stopped")
	}
}

func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()

	log := r.logger.WithField("worker_id", id)
	log.Debug("Ingestion worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("Ingestion worker stopping")
			return
		case <-r.done:
			return
		case t := <-r.tasks:
			r.runJob(ctx, t.job, t.path)
		}
	}
}
