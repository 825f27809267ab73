package actors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"flowstatus/status"
)

// Key identifies one (user, guild) pair the actors contend over.
type Key struct {
	UserID  string
	GuildID string
}

// Setter repeatedly sets random statuses on random keys and checks that each
// returned record is consistent with the request and the service TTL.
func Setter(ctx context.Context, svc *status.Service, keys []Key, stop <-chan struct{}) error {
	values := status.Values()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		k := keys[rand.Intn(len(keys))]
		v := values[rand.Intn(len(values))]

		rec, err := svc.Set(ctx, k.UserID, k.GuildID, v)
		if err != nil {
			if retryable(ctx, err) {
				continue
			}
			return fmt.Errorf("setter: %w", err)
		}
		if rec.Status != v || rec.UserID != k.UserID || rec.GuildID != k.GuildID {
			return fmt.Errorf("setter: set %s for %v returned %+v", v, k, rec)
		}
		if !rec.ExpiresAt.Equal(rec.SetAt.Add(svc.TTL())) {
			return fmt.Errorf("setter: window %s..%s is not %s", rec.SetAt, rec.ExpiresAt, svc.TTL())
		}
		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}

// Reader polls the current status of random keys. Every answer must be a
// supported value that has not expired.
func Reader(ctx context.Context, svc *status.Service, keys []Key, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		k := keys[rand.Intn(len(keys))]

		rec, err := svc.Current(ctx, k.UserID, k.GuildID)
		switch {
		case errors.Is(err, status.ErrNoActiveStatus):
		case err != nil:
			if !retryable(ctx, err) {
				return fmt.Errorf("reader: %w", err)
			}
		default:
			if !rec.Status.Valid() {
				return fmt.Errorf("reader: unsupported status %q for %v", rec.Status, k)
			}
			if !rec.ExpiresAt.After(time.Now().Add(-time.Second)) {
				return fmt.Errorf("reader: expired record served for %v: %+v", k, rec)
			}
		}
		time.Sleep(time.Duration(5+rand.Intn(10)) * time.Millisecond)
	}
}

// Sweeper purges expired records while setters and readers run. A short-TTL
// service keeps it supplied with rows that expire during the run.
func Sweeper(ctx context.Context, svc *status.Service, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := svc.PurgeExpired(ctx); err != nil && !retryable(ctx, err) {
			return fmt.Errorf("sweeper: %w", err)
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}

// retryable reports whether err is the kind of failure injected by chaos:
// a killed or unreachable backend. Anything else is a store regression.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 57: operator intervention (pg_terminate_backend), class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "57P") || strings.HasPrefix(pgErr.Code, "08")
	}

	var netErr net.Error
	switch {
	case pgconn.SafeToRetry(err), pgconn.Timeout(err):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.As(err, &netErr):
		return true
	}
	return false
}
