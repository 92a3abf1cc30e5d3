package booking

import "strings"

type RoomLine struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// NewRoomLines validates a room request and merges repeated types so each
// type is checked against capacity once with its full quantity.
func NewRoomLines(lines []RoomLine) ([]RoomLine, error) {
	if len(lines) == 0 {
		return nil, ErrNoRooms
	}
	merged := make([]RoomLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		t := strings.TrimSpace(l.Type)
		if t == "" || l.Quantity <= 0 {
			return nil, ErrInvalidRoomLine
		}
		if i, ok := index[t]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[t] = len(merged)
		merged = append(merged, RoomLine{Type: t, Quantity: l.Quantity})
	}
	return merged, nil
}

func ValidatePax(pax int) error {
	if pax < 1 || pax > 100 {
		return ErrInvalidPax
	}
	return nil
}

func NewPlaces(places []string) ([]string, error) {
	out := make([]string, 0, len(places))
	for _, p := range places {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPlaces
	}
	return out, nil
}
