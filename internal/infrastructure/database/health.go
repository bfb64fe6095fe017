package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

// HealthReport is a snapshot of database reachability and basic volume.
type HealthReport struct {
	Database    string        `json:"database"`
	Latency     time.Duration `json:"latency_ns"`
	Users       int64         `json:"users"`
	Tickets     int64         `json:"tickets"`
	OpenTickets int64         `json:"open_tickets"`
}

type HealthChecker struct {
	db *gorm.DB
}

func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Ping checks connectivity only.
func (h *HealthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Check pings the database and counts users and tickets.
func (h *HealthChecker) Check(ctx context.Context) (*HealthReport, error) {
	start := time.Now()
	if err := h.Ping(ctx); err != nil {
		return &HealthReport{Database: "down"}, fmt.Errorf("database ping failed: %w", err)
	}

	report := &HealthReport{Database: "ok", Latency: time.Since(start)}
	tx := h.db.WithContext(ctx)

	if err := tx.Table(constants.TableUsers).Count(&report.Users).Error; err != nil {
		return report, fmt.Errorf("failed to count users: %w", err)
	}
	if err := tx.Table(constants.TableTickets).Count(&report.Tickets).Error; err != nil {
		return report, fmt.Errorf("failed to count tickets: %w", err)
	}
	if err := tx.Table(constants.TableTickets).Where("status = ?", "ABERTO").Count(&report.OpenTickets).Error; err != nil {
		return report, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return report, nil
}
