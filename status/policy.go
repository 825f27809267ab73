package status

import (
	"fmt"
	"time"
)

// DefaultTTL is how long a status stays active after it is set.
const DefaultTTL = 4 * time.Hour

// Policy holds the lifetime rules applied to new records.
type Policy struct {
	TTL time.Duration
}

// NewPolicy validates ttl and returns a Policy using it.
func NewPolicy(ttl time.Duration) (Policy, error) {
	if ttl <= 0 {
		return Policy{}, fmt.Errorf("status: ttl must be positive, got %s", ttl)
	}
	return Policy{TTL: ttl}, nil
}

// DefaultPolicy returns a Policy with DefaultTTL.
func DefaultPolicy() Policy {
	return Policy{TTL: DefaultTTL}
}

// NewRecord builds the record written when a member sets v at now.
func (p Policy) NewRecord(id, userID, guildID string, v Value, now time.Time) Record {
	return Record{
		ID:        id,
		UserID:    userID,
		GuildID:   guildID,
		Status:    v,
		SetAt:     now,
		ExpiresAt: now.Add(p.TTL),
	}
}

// IsActive reports whether rec has not yet expired at now.
func IsActive(rec Record, now time.Time) bool {
	return rec.ExpiresAt.After(now)
}

// SelectCurrent picks the authoritative record among those stored for a single
// (user, guild) key: the active one with the latest SetAt.
func SelectCurrent(records []Record, now time.Time) (Record, bool) {
	var (
		current Record
		found   bool
	)
	for _, rec := range records {
		if !IsActive(rec, now) {
			continue
		}
		if !found || rec.SetAt.After(current.SetAt) {
			current = rec
			found = true
		}
	}
	return current, found
}
