package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/models"
)

// Scheduler manages scheduled maintenance tasks
type Scheduler struct {
	cron          *cron.Cron
	db            *models.Database
	staleJobAfter time.Duration
	logger        *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(db *models.Database, staleJobAfter time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		db:            db,
		staleJobAfter: staleJobAfter,
		logger:        logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 10 minutes: fail upload jobs whose worker died before finalizing
	_, err := s.cron.AddFunc("*/10 * * * *", func() {
		s.runStaleJobSweep()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runStaleJobSweep() {
	s.logger.Debug("Running stale upload job sweep")

	cutoff := time.Now().Add(-s.staleJobAfter)
	if err := SweepStaleJobs(s.db, cutoff, s.logger); err != nil {
		s.logger.WithError(err).Error("Stale upload job sweep failed")
	}
}

// SweepStaleJobs marks upload jobs stuck in_progress since before the
// cutoff as failed. A job can only end up here if its worker never reached
// the finalize step, e.g. after a crash.
func SweepStaleJobs(db *models.Database, cutoff time.Time, logger *logrus.Logger) error {
	jobs, err := db.GetStaleUploadJobs(cutoff)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		job.Status = models.UploadStatusFailed
		job.Error = "upload worker did not finish, marked failed by stale job sweep"
		if err := db.UpdateUploadJob(job); err != nil {
			logger.WithError(err).WithField("task_id", job.TaskID).
				Error("Failed to mark stale upload job")
			continue
		}

		logger.WithFields(logrus.Fields{
			"task_id":       job.TaskID,
			"file_name":     job.FileName,
			"uploaded_rows": job.UploadedRows,
		}).Warn("Marked stale upload job as failed")
	}

	return nil
}
