package ticket

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

// NumberPrefix starts every ticket number, e.g. CSC202503140007.
const NumberPrefix = "CSC"

var numberPattern = regexp.MustCompile(`^CSC\d{8}\d{4,}$`)

type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// SequenceAllocator hands out the next sequence for a business day. It must
// be atomic across processes; the database counter table provides that.
type SequenceAllocator interface {
	Next(ctx context.Context, periodKey string) (int64, error)
}

// DailyNumberGenerator formats CSC{yyyymmdd}{seq} numbers whose sequence
// restarts every business day.
type DailyNumberGenerator struct {
	allocator SequenceAllocator
	now       func() time.Time
}

func NewDailyNumberGenerator(allocator SequenceAllocator) *DailyNumberGenerator {
	return &DailyNumberGenerator{
		allocator: allocator,
		now:       biztime.NowUTC,
	}
}

func (g *DailyNumberGenerator) Generate(ctx context.Context) (string, error) {
	periodKey := biztime.DateKey(g.now())
	seq, err := g.allocator.Next(ctx, periodKey)
	if err != nil {
		return "", fmt.Errorf("failed to allocate ticket sequence: %w", err)
	}
	return FormatNumber(periodKey, seq), nil
}

func FormatNumber(periodKey string, seq int64) string {
	return fmt.Sprintf("%s%s%04d", NumberPrefix, periodKey, seq)
}

// IsValidNumber reports whether s has the ticket number shape.
func IsValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}
