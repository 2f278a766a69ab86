package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// PurgeSessionsJob removes expired login sessions.
const PurgeSessionsJob = "purge-sessions"

// SessionPurger deletes expired sessions. *store.Store satisfies it.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// RegisterDefaults registers the application's jobs with the manager.
func RegisterDefaults(m *Manager, sessions SessionPurger) {
	m.Register(PurgeSessionsJob, "Purge expired sessions", func(ctx context.Context) (string, error) {
		n, err := sessions.PurgeExpiredSessions(ctx)
		if err != nil {
			return "", fmt.Errorf("purge sessions: %w", err)
		}
		return fmt.Sprintf("Removed %d expired sessions.", n), nil
	})
}

// StartJobs starts the background job scheduler. It returns nil when
// every schedule is disabled; otherwise the caller stops the scheduler.
func StartJobs(m *Manager, cleanupIntervalMinutes int, logger *zap.Logger) *gocron.Scheduler {
	if cleanupIntervalMinutes <= 0 {
		logger.Info("Session cleanup interval is 0, scheduled cleanup is disabled.")
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	logger.Info("Scheduling job", zap.String("job", PurgeSessionsJob), zap.Int("interval_minutes", cleanupIntervalMinutes))
	_, err := s.Every(cleanupIntervalMinutes).Minutes().WaitForSchedule().Do(func() {
		// Go through the manager so a manual run and a scheduled run never overlap.
		if err := m.RunJob(PurgeSessionsJob); err != nil {
			logger.Warn("Scheduled job could not start", zap.String("job", PurgeSessionsJob), zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("Error scheduling job", zap.String("job", PurgeSessionsJob), zap.Error(err))
		return nil
	}

	logger.Info("Starting background job scheduler...")
	s.StartAsync()
	return s
}
