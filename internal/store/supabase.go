package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

// Supabase updates user_profiles through the project's PostgREST endpoint
// using the service-role key, so row level security does not apply.
type Supabase struct {
	client *postgrest.Client
}

// NewSupabase builds a client for the Supabase project at projectURL.
func NewSupabase(projectURL, serviceRoleKey string) (*Supabase, error) {
	restURL := strings.TrimSuffix(projectURL, "/") + "/rest/v1"
	client := postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        serviceRoleKey,
		"Authorization": "Bearer " + serviceRoleKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("supabase client: %w", client.ClientError)
	}
	return &Supabase{client: client}, nil
}

// MarkDonated issues one PATCH filtered on email. An email that matches no
// row is not an error; PostgREST reports it as a successful empty update.
func (s *Supabase) MarkDonated(_ context.Context, email string, at time.Time) error {
	values := map[string]string{
		"paying_status": StatusDonated,
		"donation_date": isoTimestamp(at),
	}
	_, _, err := s.client.From(Table).
		Update(values, "minimal", "").
		Eq("email", email).
		Execute()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	return nil
}

var _ Store = (*Supabase)(nil)
