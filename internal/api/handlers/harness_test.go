package handlers

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avsingh/catalogarr/internal/ingest"
	"github.com/avsingh/catalogarr/internal/models"
	"github.com/avsingh/catalogarr/internal/services/auth"
	"github.com/avsingh/catalogarr/internal/services/catalog"
)

// testEnv wires a full handler stack against a temp database
type testEnv struct {
	db      *models.Database
	tokens  *auth.TokenManager
	authSvc *auth.Service
	catalog *catalog.Service
	runner  *ingest.Runner
	logger  *logrus.Logger
	dir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := models.NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		db:      db,
		tokens:  tokens,
		authSvc: auth.NewService(db, tokens, logger),
		catalog: catalog.NewService(db, logger),
		runner:  ingest.NewRunner(db, 1000, 1, logger),
		logger:  logger,
		dir:     dir,
	}
}

// waitForJob polls until the upload job reaches a terminal status
func waitForJob(t *testing.T, db *models.Database, taskID string) *models.UploadJob {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := db.GetUploadJobByTaskID(taskID)
		if err != nil {
			t.Fatalf("Failed to load job: %v", err)
		}
		if job.Status != models.UploadStatusInProgress {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("Upload job did not reach a terminal status")
	return nil
}
