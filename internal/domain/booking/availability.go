package booking

import "houseboat-booking/internal/domain/boat"

type Availability struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

func ComputeAvailability(inv boat.Inventory, booked BookedRooms) map[string]Availability {
	out := make(map[string]Availability, len(inv.Types()))
	for _, t := range inv.Types() {
		total := inv.Lookup(t).Count
		b := booked.Of(t)
		out[t] = Availability{
			Total:     total,
			Booked:    b,
			Available: max(0, total-b),
		}
	}
	return out
}

// Shortfall names the first requested room type that does not fit.
type Shortfall struct {
	Type      string
	Remaining int
}

// CheckCapacity returns nil when every line fits on top of what is booked.
func CheckCapacity(inv boat.Inventory, booked BookedRooms, lines []RoomLine) *Shortfall {
	for _, l := range lines {
		already := booked.Of(l.Type)
		capacity := inv.Lookup(l.Type).Count
		if already+l.Quantity > capacity {
			return &Shortfall{Type: l.Type, Remaining: max(0, capacity-already)}
		}
	}
	return nil
}
