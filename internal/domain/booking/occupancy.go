package booking

import "github.com/google/uuid"

// Occupancy is the slice of a booking that matters for capacity.
type Occupancy struct {
	BookingID uuid.UUID
	Status    Status
	Stay      Stay
	Rooms     []RoomLine
}

// BookedRooms maps a room type to units already committed. Absent types are 0.
type BookedRooms map[string]int

func (b BookedRooms) Of(roomType string) int {
	return b[roomType]
}

// Aggregate sums committed units per room type over occupancies that hold
// capacity and overlap the stay. The exclude id, when set, is skipped.
func Aggregate(occupancies []Occupancy, stay Stay, exclude *uuid.UUID) BookedRooms {
	booked := BookedRooms{}
	for _, o := range occupancies {
		if exclude != nil && o.BookingID == *exclude {
			continue
		}
		if !o.Status.ConsumesCapacity() || !o.Stay.Overlaps(stay) {
			continue
		}
		for _, r := range o.Rooms {
			if r.Quantity > 0 {
				booked[r.Type] += r.Quantity
			}
		}
	}
	return booked
}
