package notify

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidPriority         = errors.New("invalid priority")
	ErrContextRequired         = errors.New("context label required")
	ErrUnknownOrderStatus      = errors.New("unknown order status")
)

// RecipientError is a failure to notify a single recipient of a batch.
type RecipientError struct {
	UserID int64
	Err    error
}

func (e *RecipientError) Error() string {
	return fmt.Sprintf("notifying user %d: %v", e.UserID, e.Err)
}

func (e *RecipientError) Unwrap() error { return e.Err }

// BatchError collects the per-recipient failures of a batch run under
// the continue policy, in input order.
type BatchError struct {
	Failures []*RecipientError
}

func (e *BatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d recipient(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every recipient failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FailedUserIDs lists the recipients that were not notified.
func (e *BatchError) FailedUserIDs() []int64 {
	ids := make([]int64, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.UserID
	}
	return ids
}
