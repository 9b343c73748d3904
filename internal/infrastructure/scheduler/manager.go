// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"sep2utility/internal/shared/biztime"
	"sep2utility/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Notification Check Jobs (configurable interval, start immediately)
// ========================================

// RegisterNotificationCheckJob registers the check_db_change_or_delete cycle: on every tick it
// fetches entities changed or deleted since the last run, matches them against subscriptions,
// and hands the resulting delivery tasks to the transmitter. interval comes from
// NotificationConfig.CheckIntervalSeconds.
func (m *SchedulerManager) RegisterNotificationCheckJob(checkJob BatchJob, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			m.runNotificationCheck(ctx, checkJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("notification", "check-db-change-or-delete"),
		gocron.WithName("notification-check"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered notification check job", "interval", interval)
	return nil
}

func (m *SchedulerManager) runNotificationCheck(ctx context.Context, checkJob BatchJob) {
	m.logger.Debugw("notification check cycle started")

	startTime := biztime.NowUTC()
	taskCount, err := checkJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("notification check cycle failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if taskCount > 0 {
		m.logger.Infow("notification check cycle enqueued delivery tasks",
			"count", taskCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("notification check cycle found no changes", "duration", time.Since(startTime))
	}
}

// ========================================
// Archive Retention Jobs (daily, business timezone)
// ========================================

// RetentionPruner defines the interface for pruning archive tables past their retention window.
// The 2030.5 archive tables (archive_site, archive_dynamic_operating_envelope,
// archive_tariff_generated_rate, ...) grow without bound otherwise.
type RetentionPruner interface {
	PruneExpiredArchives(ctx context.Context, retentionDays int) (int, error)
}

// DefaultArchiveRetentionDays is the default number of days archive rows are kept before pruning.
const DefaultArchiveRetentionDays = 90

// RegisterArchiveRetentionJob registers a daily prune of archive rows older than retentionDays,
// run at 02:00 business timezone, ahead of the notification check window.
func (m *SchedulerManager) RegisterArchiveRetentionJob(pruner RetentionPruner, retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = DefaultArchiveRetentionDays
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 2 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.pruneArchives(ctx, pruner, retentionDays)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("archive", "retention"),
		gocron.WithName("archive-retention"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered archive retention job", "schedule", "02:00", "retention_days", retentionDays)
	return nil
}

func (m *SchedulerManager) pruneArchives(ctx context.Context, pruner RetentionPruner, retentionDays int) {
	m.logger.Debugw("archive retention prune started", "retention_days", retentionDays)

	startTime := biztime.NowUTC()
	pruned, err := pruner.PruneExpiredArchives(ctx, retentionDays)
	if err != nil {
		m.logger.Errorw("archive retention prune failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("archive retention prune completed",
		"pruned", pruned,
		"duration", time.Since(startTime),
	)
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
