package scheduler

import (
	"context"
	"time"

	notificationusecases "github.com/csc-helpdesk/csc/internal/application/notification/usecases"
	"github.com/csc-helpdesk/csc/internal/infrastructure/database"
	"github.com/csc-helpdesk/csc/internal/shared/config"
)

const (
	JobAuditPurge        = "audit-purge"
	JobNotificationPurge = "notification-purge"
	JobOverdueSweep      = "overdue-sweep"
	JobHealthCheck       = "health-check"
)

// Purger deletes rows past their retention window and reports how many.
type Purger interface {
	Execute(ctx context.Context) (int64, error)
}

type OverdueSweeper interface {
	Execute(ctx context.Context) (*notificationusecases.SweepOverdueResult, error)
}

type HealthProbe interface {
	Check(ctx context.Context) (*database.HealthReport, error)
}

type MaintenanceDeps struct {
	AuditPurge        Purger
	NotificationPurge Purger
	OverdueSweep      OverdueSweeper
	Health            HealthProbe
}

// MaintenanceJobs maps each configured maintenance task onto a JobSpec.
// A nil dependency leaves its job out.
func MaintenanceJobs(cfg config.SchedulerConfig, deps MaintenanceDeps) []JobSpec {
	var specs []JobSpec

	if deps.AuditPurge != nil {
		specs = append(specs, JobSpec{
			Name:    JobAuditPurge,
			Cron:    cfg.AuditPurgeCron,
			Timeout: 30 * time.Minute,
			Task:    purgeTask(deps.AuditPurge),
		})
	}
	if deps.NotificationPurge != nil {
		specs = append(specs, JobSpec{
			Name:    JobNotificationPurge,
			Cron:    cfg.NotifyPurgeCron,
			Timeout: 30 * time.Minute,
			Task:    purgeTask(deps.NotificationPurge),
		})
	}
	if deps.OverdueSweep != nil {
		specs = append(specs, JobSpec{
			Name:    JobOverdueSweep,
			Cron:    cfg.OverdueSweepCron,
			Timeout: 15 * time.Minute,
			Task: func(ctx context.Context) ([]any, error) {
				res, err := deps.OverdueSweep.Execute(ctx)
				if err != nil {
					return nil, err
				}
				return []any{"tickets", res.Tickets, "notified", res.Notified}, nil
			},
		})
	}
	if deps.Health != nil {
		specs = append(specs, JobSpec{
			Name:    JobHealthCheck,
			Cron:    cfg.HealthCheckCron,
			Timeout: time.Minute,
			Task: func(ctx context.Context) ([]any, error) {
				report, err := deps.Health.Check(ctx)
				if err != nil {
					return nil, err
				}
				return []any{
					"database", report.Database,
					"latency", report.Latency,
					"users", report.Users,
					"tickets", report.Tickets,
					"open_tickets", report.OpenTickets,
				}, nil
			},
		})
	}
	return specs
}

func purgeTask(p Purger) Task {
	return func(ctx context.Context) ([]any, error) {
		deleted, err := p.Execute(ctx)
		if err != nil {
			return nil, err
		}
		return []any{"deleted", deleted}, nil
	}
}

// RegisterAll registers every spec, stopping at the first invalid one.
func (m *SchedulerManager) RegisterAll(specs []JobSpec) error {
	for _, spec := range specs {
		if err := m.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
