// Package scheduler runs the maintenance jobs on gocron v2.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// Task runs one job execution. The returned key/value pairs are logged on success.
type Task func(ctx context.Context) (summary []any, err error)

// JobSpec describes a cron job in the business timezone.
type JobSpec struct {
	Name    string
	Cron    string
	Timeout time.Duration
	Task    Task
}

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager evaluates cron expressions in biztime.Location().
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

// Register adds a singleton cron job; an overlapping run is rescheduled, not stacked.
func (m *SchedulerManager) Register(spec JobSpec) error {
	if spec.Name == "" || spec.Task == nil {
		return fmt.Errorf("job name and task are required")
	}
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(spec.Cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.run(ctx, spec.Name, spec.Task)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("maintenance", spec.Name),
		gocron.WithName(spec.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", spec.Name, err)
	}

	m.logger.Infow("registered scheduled job", "job", spec.Name, "cron", spec.Cron)
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, task Task) {
	m.logger.Debugw("scheduled job started", "job", name)

	startTime := biztime.NowUTC()
	summary, err := task(ctx)
	if err != nil {
		// shutdown cancels the context; that is not a job failure
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	fields := append([]any{"job", name, "duration", time.Since(startTime)}, summary...)
	m.logger.Infow("scheduled job completed", fields...)
}

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

// Stop waits for running jobs to complete.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
