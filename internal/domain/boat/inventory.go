package boat

import "houseboat-booking/internal/domain/money"

type RoomSpec struct {
	Count int
	Price money.Money
}

type Inventory struct {
	specs    map[string]RoomSpec
	order    []string
	fallback money.Money
}

// Lookup never fails: undeclared types have no units and the fallback price.
func (inv Inventory) Lookup(roomType string) RoomSpec {
	if spec, ok := inv.specs[roomType]; ok {
		return spec
	}
	return RoomSpec{Count: 0, Price: inv.fallback}
}

// Types returns the declared room types in configuration order.
func (inv Inventory) Types() []string {
	out := make([]string, len(inv.order))
	copy(out, inv.order)
	return out
}
