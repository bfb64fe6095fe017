package permission

import (
	"fmt"
	"strings"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
)

// SyncResult counts policy rows changed by Sync.
type SyncResult struct {
	Added   int
	Removed int
}

// Sync makes the stored policies equal to the static role table: missing
// rows are added and rows no longer in the table are removed.
func (e *Enforcer) Sync() (*SyncResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	want := map[string][]string{}
	for _, p := range permission.Policies() {
		rule := []string{p.Role, p.Resource, p.Action}
		want[strings.Join(rule, "|")] = rule
	}

	stored, err := e.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get policies: %w", err)
	}

	var stale [][]string
	have := map[string]bool{}
	for _, rule := range stored {
		key := strings.Join(rule, "|")
		if _, ok := want[key]; ok {
			have[key] = true
			continue
		}
		stale = append(stale, rule)
	}

	var missing [][]string
	for key, rule := range want {
		if !have[key] {
			missing = append(missing, rule)
		}
	}

	res := &SyncResult{}
	if len(stale) > 0 {
		if _, err := e.enforcer.RemovePolicies(stale); err != nil {
			return nil, fmt.Errorf("failed to remove stale policies: %w", err)
		}
		res.Removed = len(stale)
	}
	if len(missing) > 0 {
		if _, err := e.enforcer.AddPolicies(missing); err != nil {
			return nil, fmt.Errorf("failed to add policies: %w", err)
		}
		res.Added = len(missing)
	}

	if res.Added > 0 || res.Removed > 0 {
		e.logger.Infow("permission policies synced", "added", res.Added, "removed", res.Removed)
	}
	return res, nil
}
