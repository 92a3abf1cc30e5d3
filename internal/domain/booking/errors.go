package booking

import "errors"

var (
	ErrInvalidStay       = errors.New("check-out must be after check-in")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNoRooms           = errors.New("at least one room is required")
	ErrInvalidRoomLine   = errors.New("room type and a positive quantity are required")
	ErrInvalidPax        = errors.New("pax must be between 1 and 100")
	ErrNoPlaces          = errors.New("at least one place is required")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotPending        = errors.New("booking is not pending")
)
