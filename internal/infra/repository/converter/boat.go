package converter

import (
	"encoding/json"
	"strconv"
	"strings"

	"houseboat-booking/internal/domain/boat"
	"houseboat-booking/internal/domain/money"
)

type roomRecord struct {
	Type  string          `json:"type"`
	Count json.RawMessage `json:"count"`
	Price json.RawMessage `json:"price"`
}

// RoomsFromJSON decodes the boats.rooms column. Staff-edited configs are not
// always clean, so each entry is decoded on its own: unreadable entries are
// dropped, unreadable counts become 0 and unreadable prices are left unset.
// The second return value reports whether anything had to be repaired.
func RoomsFromJSON(raw []byte) ([]boat.Room, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, true
	}

	repaired := false
	rooms := make([]boat.Room, 0, len(entries))
	for _, e := range entries {
		var rec roomRecord
		if err := json.Unmarshal(e, &rec); err != nil || strings.TrimSpace(rec.Type) == "" {
			repaired = true
			continue
		}
		count, okCount := parseNumber(rec.Count)
		if !okCount {
			repaired = true
		}
		room := boat.Room{Type: strings.TrimSpace(rec.Type), Count: int(count)}
		if price, ok := parseNumber(rec.Price); ok {
			if m, err := money.FromMajor(price); err == nil {
				room.Price = &m
			} else {
				repaired = true
			}
		} else {
			repaired = true
		}
		rooms = append(rooms, room)
	}
	return rooms, repaired
}

// accepts 3, 3.0 and "3"
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func RoomsToJSON(rooms []boat.Room) ([]byte, error) {
	out := make([]map[string]any, 0, len(rooms))
	for _, r := range rooms {
		entry := map[string]any{"type": r.Type, "count": r.Count}
		if r.Price != nil {
			entry["price"] = r.Price.Major()
		}
		out = append(out, entry)
	}
	return json.Marshal(out)
}
