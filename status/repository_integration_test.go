package status_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowstatus/status"
	"flowstatus/test/infra"
)

func newIntegrationHarness(t *testing.T) (context.Context, *infra.Harness) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	if !infra.Available(ctx) {
		t.Skipf("%s is empty and docker is unavailable; skipping integration test", infra.DSNEnv)
	}

	h, err := infra.NewHarness(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close(context.Background()) })
	require.NoError(t, h.Reset(ctx))
	return ctx, h
}

func TestPGRepository_UpsertReplacesAndKeepsID(t *testing.T) {
	ctx, h := newIntegrationHarness(t)
	repo := status.NewRepository(h.Pool())

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	policy := status.DefaultPolicy()

	first, err := repo.Upsert(ctx, policy.NewRecord("6f1c2a40-0000-4000-8000-000000000001", "u1", "g1", status.Busy, base))
	require.NoError(t, err)
	assert.Equal(t, status.Busy, first.Status)
	assert.True(t, first.ExpiresAt.Equal(base.Add(status.DefaultTTL)))

	second, err := repo.Upsert(ctx, policy.NewRecord("6f1c2a40-0000-4000-8000-000000000002", "u1", "g1", status.Break, base.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, status.Break, second.Status)
	assert.True(t, second.SetAt.Equal(base.Add(time.Hour)))

	active, err := repo.ListActive(ctx, "u1", "g1", base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, status.Break, active[0].Status)
}

func TestPGRepository_ScopedPerGuild(t *testing.T) {
	ctx, h := newIntegrationHarness(t)
	repo := status.NewRepository(h.Pool())

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	policy := status.DefaultPolicy()

	_, err := repo.Upsert(ctx, policy.NewRecord("6f1c2a40-0000-4000-8000-000000000011", "u1", "g1", status.Busy, now))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, policy.NewRecord("6f1c2a40-0000-4000-8000-000000000012", "u1", "g2", status.Available, now))
	require.NoError(t, err)

	g1, err := repo.ListActive(ctx, "u1", "g1", now)
	require.NoError(t, err)
	require.Len(t, g1, 1)
	assert.Equal(t, status.Busy, g1[0].Status)

	g2, err := repo.ListActive(ctx, "u1", "g2", now)
	require.NoError(t, err)
	require.Len(t, g2, 1)
	assert.Equal(t, status.Available, g2[0].Status)
}

func TestPGRepository_ExpiryBoundary(t *testing.T) {
	ctx, h := newIntegrationHarness(t)
	repo := status.NewRepository(h.Pool())

	setAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rec, err := repo.Upsert(ctx, status.DefaultPolicy().NewRecord("6f1c2a40-0000-4000-8000-000000000021", "u1", "g1", status.ClientWork, setAt))
	require.NoError(t, err)

	before, err := repo.ListActive(ctx, "u1", "g1", rec.ExpiresAt.Add(-time.Microsecond))
	require.NoError(t, err)
	assert.Len(t, before, 1)

	at, err := repo.ListActive(ctx, "u1", "g1", rec.ExpiresAt)
	require.NoError(t, err)
	assert.Empty(t, at)

	n, err := repo.DeleteExpired(ctx, rec.ExpiresAt.Add(-time.Second))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteExpired(ctx, rec.ExpiresAt)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPGRepository_RejectsUnknownStatus(t *testing.T) {
	ctx, h := newIntegrationHarness(t)
	repo := status.NewRepository(h.Pool())

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := status.Record{
		ID:        "6f1c2a40-0000-4000-8000-000000000031",
		UserID:    "u1",
		GuildID:   "g1",
		Status:    status.Value("vacation"),
		SetAt:     now,
		ExpiresAt: now.Add(time.Hour),
	}

	_, err := repo.Upsert(ctx, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidStatus))
}

func TestPGRepository_EmptyWindowIsNotInvalidStatus(t *testing.T) {
	ctx, h := newIntegrationHarness(t)
	repo := status.NewRepository(h.Pool())

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := status.Record{
		ID:        "6f1c2a40-0000-4000-8000-000000000032",
		UserID:    "u1",
		GuildID:   "g1",
		Status:    status.Busy,
		SetAt:     now,
		ExpiresAt: now,
	}

	_, err := repo.Upsert(ctx, rec)
	require.Error(t, err)
	assert.False(t, errors.Is(err, status.ErrInvalidStatus))
}

func TestService_AgainstPostgres(t *testing.T) {
	ctx, h := newIntegrationHarness(t)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := status.NewService(status.NewRepository(h.Pool()), status.DefaultPolicy()).
		WithClock(func() time.Time { return now })

	_, err := svc.Current(ctx, "u1", "g1")
	assert.ErrorIs(t, err, status.ErrNoActiveStatus)

	set, err := svc.Set(ctx, "u1", "g1", status.CreativeFlow)
	require.NoError(t, err)

	cur, err := svc.Current(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, set.ID, cur.ID)
	assert.Equal(t, status.CreativeFlow, cur.Status)

	now = now.Add(status.DefaultTTL)
	_, err = svc.Current(ctx, "u1", "g1")
	assert.ErrorIs(t, err, status.ErrNoActiveStatus)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
