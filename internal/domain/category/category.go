package category

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MinSLAHours          = 1
	MaxSLAHours          = 720
	DefaultSLAHours      = 24
)

// Category groups tickets of an area and carries the SLA used to derive due dates.
type Category struct {
	id          uint
	name        string
	description string
	area        vo.Area
	slaHours    int
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCategory(name, description string, area vo.Area, slaHours int) (*Category, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("name exceeds maximum length of %d characters", MaxNameLength)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", MaxDescriptionLength)
	}
	if !area.IsValid() {
		return nil, fmt.Errorf("invalid area: %s", area)
	}
	if slaHours == 0 {
		slaHours = DefaultSLAHours
	}
	if slaHours < MinSLAHours || slaHours > MaxSLAHours {
		return nil, fmt.Errorf("sla_hours must be between %d and %d", MinSLAHours, MaxSLAHours)
	}

	now := biztime.NowUTC()
	return &Category{
		name:        name,
		description: description,
		area:        area,
		slaHours:    slaHours,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructCategory(id uint, name, description string, area vo.Area, slaHours int, isActive bool, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		description: description,
		area:        area,
		slaHours:    slaHours,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Category) ID() uint             { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Description() string  { return c.description }
func (c *Category) Area() vo.Area        { return c.area }
func (c *Category) SLAHours() int        { return c.slaHours }
func (c *Category) IsActive() bool       { return c.isActive }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

func (c *Category) SetID(id uint) {
	c.id = id
}

// DueDateFrom returns the SLA deadline for a ticket opened at createdAt.
func (c *Category) DueDateFrom(createdAt time.Time) time.Time {
	return createdAt.Add(time.Duration(c.slaHours) * time.Hour)
}
