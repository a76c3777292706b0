package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/jobs"
	"alumni-directory-backend/internal/repository"
)

func TestNewScheduler(t *testing.T) {
	t.Run("RegistersAudit", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{BlocklistAudit: "0 0 3 * * *"}}
		s, err := NewScheduler(jobs.NewJobRunner(repository.Repositories{}, cfg))
		require.NoError(t, err)
		assert.True(t, s.IsRunning())
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("InvalidSpec", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{BlocklistAudit: "every night"}}
		_, err := NewScheduler(jobs.NewJobRunner(repository.Repositories{}, cfg))
		assert.Error(t, err)
	})
}

func TestStartStop(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{BlocklistAudit: "0 0 3 * * *"}}
	s, err := NewScheduler(jobs.NewJobRunner(repository.Repositories{}, cfg))
	require.NoError(t, err)

	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
}
