package booking

import (
	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/money"
)

type PriceCalculator interface {
	Total(inv boat.Inventory, lines []RoomLine, stay Stay) money.Money
}

// NightlyPriceCalculator charges each room's nightly price for every night.
type NightlyPriceCalculator struct{}

func NewNightlyPriceCalculator() *NightlyPriceCalculator {
	return &NightlyPriceCalculator{}
}

func (NightlyPriceCalculator) Total(inv boat.Inventory, lines []RoomLine, stay Stay) money.Money {
	nights := stay.Nights()
	total := money.New(0)
	for _, l := range lines {
		total = total.Add(inv.Lookup(l.Type).Price.Times(l.Quantity * nights))
	}
	return total
}
