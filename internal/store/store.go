// Package store applies donation state to user records kept outside this
// service, either through the Supabase REST API or directly in Postgres.
package store

import (
	"context"
	"errors"
	"time"
)

const (
	// Table holds one row per user, keyed by email.
	Table = "user_profiles"
	// StatusDonated is written to paying_status once a checkout completes.
	StatusDonated = "donated"
)

// ErrUpdateFailed wraps every backend failure returned by MarkDonated.
var ErrUpdateFailed = errors.New("update user record")

// Store marks a user, addressed by email, as having donated at a given time.
type Store interface {
	MarkDonated(ctx context.Context, email string, at time.Time) error
}

// isoTimestamp renders t the way JavaScript's toISOString does, which is the
// format the rest of the user_profiles consumers expect.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
