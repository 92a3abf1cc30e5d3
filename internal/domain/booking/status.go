package booking

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
	StatusCompleted Status = "COMPLETED"
)

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusPaid, StatusCancelled},
	StatusConfirmed: {StatusRefunded, StatusCompleted, StatusCancelled},
	StatusPaid:      {StatusRefunded, StatusCompleted, StatusCancelled},
	StatusCancelled: {},
	StatusRefunded:  {},
	StatusCompleted: {},
}

// CapacityStatuses are the statuses whose bookings hold rooms.
func CapacityStatuses() []Status {
	return []Status{StatusPaid, StatusConfirmed, StatusCompleted}
}

// ActiveStatuses are the statuses checked by the duplicate-booking rule.
func ActiveStatuses() []Status {
	return []Status{StatusPaid, StatusConfirmed}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s Status) ConsumesCapacity() bool {
	switch s {
	case StatusPaid, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
