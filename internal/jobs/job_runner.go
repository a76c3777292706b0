package jobs

import (
	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos  repository.Repositories
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repositories, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:  repos,
		config: cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.AuditBlocklist()
}
