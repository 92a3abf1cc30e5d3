package shared

import (
	"github.com/google/uuid"
)

// Minimal user record needed to snapshot customer contact details.
type UserSnapshot struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

type ExpiredBooking struct {
	ID     uuid.UUID
	BoatID uuid.UUID
}
