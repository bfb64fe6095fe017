package ticket

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotOpen is returned when claiming a ticket that is not ABERTO.
	ErrNotOpen = errors.New("only open tickets may be claimed")

	ErrAlreadyClosed  = errors.New("ticket is already closed")
	ErrTerminal       = errors.New("ticket is closed or cancelled")
	ErrNotCancellable = errors.New("only open tickets may be cancelled")

	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is returned by repositories when the stored
	// version no longer matches the one the ticket was loaded with.
	ErrConcurrentModification = errors.New("ticket was modified by another request")
)

// IsStateConflict reports whether err is a lifecycle rule violation rather
// than bad input.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrNotOpen) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrTerminal) ||
		errors.Is(err, ErrNotCancellable) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConcurrentModification)
}
