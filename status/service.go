package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNoActiveStatus signals that the member has no unexpired status.
var ErrNoActiveStatus = errors.New("status: no active status")

// Service applies the record policy on top of a Repository.
type Service struct {
	repo        Repository
	policy      Policy
	idGenerator func() string
	now         func() time.Time
}

// NewService builds a Service. A zero Policy falls back to DefaultPolicy.
func NewService(repo Repository, policy Policy) *Service {
	if policy.TTL <= 0 {
		policy = DefaultPolicy()
	}
	return &Service{
		repo:        repo,
		policy:      policy,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL reports how long newly set statuses stay active.
func (s *Service) TTL() time.Duration {
	return s.policy.TTL
}

// Set records v as the member's status in the guild, replacing any previous one.
func (s *Service) Set(ctx context.Context, userID, guildID string, v Value) (Record, error) {
	if userID == "" || guildID == "" {
		return Record{}, fmt.Errorf("status: user and guild ids required")
	}
	if !v.Valid() {
		return Record{}, fmt.Errorf("%w %q", ErrInvalidStatus, string(v))
	}

	rec := s.policy.NewRecord(s.idGenerator(), userID, guildID, v, s.clock())
	return s.repo.Upsert(ctx, rec)
}

// Current returns the authoritative active record, or ErrNoActiveStatus.
func (s *Service) Current(ctx context.Context, userID, guildID string) (Record, error) {
	if userID == "" || guildID == "" {
		return Record{}, fmt.Errorf("status: user and guild ids required")
	}

	now := s.clock()
	records, err := s.repo.ListActive(ctx, userID, guildID, now)
	if err != nil {
		return Record{}, err
	}

	rec, ok := SelectCurrent(records, now)
	if !ok {
		return Record{}, ErrNoActiveStatus
	}
	return rec, nil
}

// PurgeExpired deletes records that are no longer active.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.clock())
}

// clock truncates to the storage precision so round-tripped records compare equal.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
