package valueobjects

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// DefaultPriority is used when a ticket is created without one.
const DefaultPriority = PriorityMedium

var priorityRank = map[Priority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities from LOW (1) to CRITICAL (4); invalid values rank 0.
func (p Priority) Rank() int {
	return priorityRank[p]
}

func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// NewPriority parses s; an empty string yields DefaultPriority.
func NewPriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPriority, nil
	}
	p := Priority(strings.ToUpper(s))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
