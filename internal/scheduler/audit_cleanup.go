package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/tasks"
)

// TaskEnqueuer adds tasks to the background queue.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// AuditCleanupScheduler enqueues the audit retention cleanup on a cron schedule.
type AuditCleanupScheduler struct {
	queue         TaskEnqueuer
	enqueue       func() error
	schedule      string
	retentionDays int
	logger        *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

func NewAuditCleanupScheduler(queue TaskEnqueuer, schedule string, retentionDays int, logger *zap.Logger) *AuditCleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditCleanupScheduler{
		queue:         queue,
		schedule:      schedule,
		retentionDays: retentionDays,
		logger:        logger.Named("scheduler"),
		cron:          cron.New(cron.WithParser(cronParser)),
	}
	s.enqueue = s.addCleanupTask
	return s
}

// Start begins the scheduler. The job stops when ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("audit cleanup scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("retention_days", s.retentionDays))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false

	s.logger.Info("audit cleanup scheduler stopped")
}

// RunNow enqueues a cleanup immediately.
func (s *AuditCleanupScheduler) RunNow() error {
	return s.enqueue()
}

func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will be enqueued.
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditCleanupScheduler) run() {
	if err := s.enqueue(); err != nil {
		s.logger.Error("failed to enqueue audit cleanup", zap.Error(err))
	}
}

func (s *AuditCleanupScheduler) addCleanupTask() error {
	_, err := s.queue.Add(tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays}).Save()
	return err
}
