package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationusecases "github.com/csc-helpdesk/csc/internal/application/notification/usecases"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) Execute(ctx context.Context) (int64, error) { return f(ctx) }

type sweeperFunc func(ctx context.Context) (*notificationusecases.SweepOverdueResult, error)

func (f sweeperFunc) Execute(ctx context.Context) (*notificationusecases.SweepOverdueResult, error) {
	return f(ctx)
}

type probeFunc func(ctx context.Context) (*database.HealthReport, error)

func (f probeFunc) Check(ctx context.Context) (*database.HealthReport, error) { return f(ctx) }

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:          true,
		AuditPurgeCron:   "0 2 * * 0",
		NotifyPurgeCron:  "0 3 * * 0",
		OverdueSweepCron: "0 9 * * *",
		HealthCheckCron:  "0 6 * * *",
	}
}

func TestMaintenanceJobs_RegistersEveryJob(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	specs := MaintenanceJobs(testSchedulerConfig(), MaintenanceDeps{
		AuditPurge:        purgerFunc(func(context.Context) (int64, error) { return 3, nil }),
		NotificationPurge: purgerFunc(func(context.Context) (int64, error) { return 0, nil }),
		OverdueSweep: sweeperFunc(func(context.Context) (*notificationusecases.SweepOverdueResult, error) {
			return &notificationusecases.SweepOverdueResult{Tickets: 2, Notified: 3}, nil
		}),
		Health: probeFunc(func(context.Context) (*database.HealthReport, error) {
			return &database.HealthReport{Database: "ok"}, nil
		}),
	})
	require.NoError(t, m.RegisterAll(specs))

	var names []string
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{JobAuditPurge, JobHealthCheck, JobNotificationPurge, JobOverdueSweep}, names)
}

func TestMaintenanceJobs_SkipsMissingDeps(t *testing.T) {
	specs := MaintenanceJobs(testSchedulerConfig(), MaintenanceDeps{
		AuditPurge: purgerFunc(func(context.Context) (int64, error) { return 0, nil }),
	})
	require.Len(t, specs, 1)
	assert.Equal(t, JobAuditPurge, specs[0].Name)
}

func TestMaintenanceJobs_TaskSummaries(t *testing.T) {
	specs := MaintenanceJobs(testSchedulerConfig(), MaintenanceDeps{
		AuditPurge: purgerFunc(func(context.Context) (int64, error) { return 7, nil }),
		OverdueSweep: sweeperFunc(func(context.Context) (*notificationusecases.SweepOverdueResult, error) {
			return nil, errors.New("db down")
		}),
	})
	require.Len(t, specs, 2)

	summary, err := specs[0].Task(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{"deleted", int64(7)}, summary)

	_, err = specs[1].Task(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRegister_RejectsInvalidCron(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	err = m.Register(JobSpec{
		Name: "broken",
		Cron: "every day at nine",
		Task: func(context.Context) ([]any, error) { return nil, nil },
	})
	assert.Error(t, err)

	err = m.Register(JobSpec{Name: "no-task", Cron: "0 9 * * *"})
	assert.Error(t, err)
}

func TestRun_SwallowsTaskErrors(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	calls := 0
	assert.NotPanics(t, func() {
		m.run(context.Background(), "failing", func(context.Context) ([]any, error) {
			calls++
			return nil, errors.New("boom")
		})
	})
	assert.Equal(t, 1, calls)
}

func TestStartStop(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	assert.NoError(t, m.Stop(), "stop before start is a no-op")
	m.Start()
	m.Start()
	assert.True(t, m.IsStarted())
	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}
