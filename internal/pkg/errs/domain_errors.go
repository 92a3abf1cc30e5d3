package errs

import "fmt"

// Sentinel errors shared by the command and query use cases. Handlers map
// them to HTTP statuses with errors.Is.
var (
	ErrValidation              = New("validation failed")
	ErrMinimumStay             = New("minimum stay not met")
	ErrBoatNotFound            = New("boat not found")
	ErrBookingNotFound         = New("booking not found")
	ErrUserNotFound            = New("user not found")
	ErrDuplicateActiveBooking  = New("active booking already exists for this boat and dates")
	ErrInsufficientCapacity    = New("insufficient room capacity")
	ErrCapacityNoLongerAvail   = New("room capacity no longer available")
	ErrNotEligibleForPayment   = New("booking is not eligible for payment")
	ErrInvalidStatusTransition = New("status transition not allowed")
	// ErrConcurrentUpdate reports lock contention that outlived the retries.
	ErrConcurrentUpdate = New("booking changed concurrently")

	ErrDatabaseOperationFailed = New("database operation failed")
)

// CapacityError names the room type that did not fit. It matches
// ErrInsufficientCapacity or ErrCapacityNoLongerAvail through errors.Is.
type CapacityError struct {
	Kind      error
	RoomType  string
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Kind == ErrCapacityNoLongerAvail {
		return fmt.Sprintf("room type %q is no longer available for these dates", e.RoomType)
	}
	return fmt.Sprintf("not enough %q rooms: %d remaining", e.RoomType, e.Remaining)
}

func (e *CapacityError) Is(target error) bool {
	return target == e.Kind
}

// ValidationError carries a user-facing reason and matches ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// MinimumStayError reports the policy value that was not met.
type MinimumStayError struct {
	MinNights int
}

func (e *MinimumStayError) Error() string {
	if e.MinNights == 1 {
		return "minimum stay is 1 night"
	}
	return fmt.Sprintf("minimum stay is %d nights", e.MinNights)
}

func (e *MinimumStayError) Is(target error) bool {
	return target == ErrMinimumStay
}

type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}
