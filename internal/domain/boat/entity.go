package boat

import (
	"time"

	"houseboat-booking/internal/domain/money"

	"github.com/google/uuid"
)

// Room is one entry of a boat's room configuration as stored by staff.
// Price is nil when the entry carries no usable price.
type Room struct {
	Type  string
	Count int
	Price *money.Money
}

type Boat struct {
	id        uuid.UUID
	name      string
	rooms     []Room
	createdAt time.Time
	updatedAt time.Time
}

func ReconstructBoat(id uuid.UUID, name string, rooms []Room, createdAt, updatedAt time.Time) *Boat {
	return &Boat{
		id:        id,
		name:      name,
		rooms:     rooms,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Boat) ID() uuid.UUID        { return b.id }
func (b *Boat) Name() string         { return b.name }
func (b *Boat) Rooms() []Room        { return b.rooms }
func (b *Boat) CreatedAt() time.Time { return b.createdAt }
func (b *Boat) UpdatedAt() time.Time { return b.updatedAt }

// Inventory flattens the room configuration into a per-type lookup.
// Entries without a type are ignored, negative counts read as zero and
// missing or negative prices fall back to the given default. When a type
// appears twice the first entry wins.
func (b *Boat) Inventory(fallback money.Money) Inventory {
	inv := Inventory{
		specs:    make(map[string]RoomSpec, len(b.rooms)),
		order:    make([]string, 0, len(b.rooms)),
		fallback: fallback,
	}
	for _, r := range b.rooms {
		if r.Type == "" {
			continue
		}
		if _, seen := inv.specs[r.Type]; seen {
			continue
		}
		spec := RoomSpec{Count: max(r.Count, 0), Price: fallback}
		if r.Price != nil && r.Price.Minor() >= 0 {
			spec.Price = *r.Price
		}
		inv.specs[r.Type] = spec
		inv.order = append(inv.order, r.Type)
	}
	return inv
}
