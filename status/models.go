package status

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus signals a status value outside the supported set.
var ErrInvalidStatus = errors.New("status: invalid status")

// Value is one of the self-assigned status labels a member can carry.
type Value string

const (
	// None means the member has no status.
	None Value = ""

	CreativeFlow Value = "creative-flow"
	ClientWork   Value = "client-work"
	Available    Value = "available"
	Busy         Value = "busy"
	Break        Value = "break"
)

var labels = map[Value]string{
	CreativeFlow: "Creative Flow",
	ClientWork:   "Client Work",
	Available:    "Available",
	Busy:         "Busy",
	Break:        "Break",
}

// Values returns the supported statuses in presentation order.
func Values() []Value {
	return []Value{CreativeFlow, ClientWork, Available, Busy, Break}
}

// Valid reports whether v is one of the supported statuses.
func (v Value) Valid() bool {
	_, ok := labels[v]
	return ok
}

// Label returns the human readable name shown in command choices.
func (v Value) Label() string {
	return labels[v]
}

// Parse validates raw against the supported statuses. Unknown values are
// rejected, never coerced.
func Parse(raw string) (Value, error) {
	v := Value(raw)
	if !v.Valid() {
		return None, fmt.Errorf("%w %q", ErrInvalidStatus, raw)
	}
	return v, nil
}

// Record mirrors the user_statuses table: one member's status in one guild.
type Record struct {
	ID        string
	UserID    string
	GuildID   string
	Status    Value
	SetAt     time.Time
	ExpiresAt time.Time
}
