package orders

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

var statusRank = map[Status]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusDelivered: 3,
}

// ErrInvalidTransition is returned when the policy rejects a status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// Statuses returns every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusReady, StatusDelivered}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Policy decides which status changes an admin may apply.
type Policy int

const (
	// PolicyForwardOnly accepts moves to a later status, including skips.
	PolicyForwardOnly Policy = iota
	// PolicyPermissive accepts any known status, like a plain overwrite.
	PolicyPermissive
)

// ParsePolicy maps "forward-only" and "permissive" to a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch raw {
	case "", "forward-only":
		return PolicyForwardOnly, nil
	case "permissive":
		return PolicyPermissive, nil
	}
	return 0, fmt.Errorf("unknown transition policy %q", raw)
}

func (p Policy) String() string {
	if p == PolicyPermissive {
		return "permissive"
	}
	return "forward-only"
}

// Check returns nil when from -> to is allowed. A move to the same status is
// always allowed and is treated as a no-op by the store.
func (p Policy) Check(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidTransition, to)
	}
	if from == to || p == PolicyPermissive {
		return nil
	}
	if !from.Valid() {
		return fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, from)
	}
	if statusRank[to] < statusRank[from] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Next returns the status an order normally advances to, or false when delivered.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	}
	return "", false
}
