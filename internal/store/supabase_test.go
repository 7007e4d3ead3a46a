package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSupabaseMarkDonatedSendsPatch(t *testing.T) {
	type captured struct {
		method string
		path   string
		filter string
		apikey string
		auth   string
		body   map[string]string
	}
	got := make(chan captured, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		_ = json.Unmarshal(raw, &body)
		got <- captured{
			method: r.Method,
			path:   r.URL.Path,
			filter: r.URL.Query().Get("email"),
			apikey: r.Header.Get("apikey"),
			auth:   r.Header.Get("Authorization"),
			body:   body,
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := NewSupabase(srv.URL+"/", "service-role")
	if err != nil {
		t.Fatalf("NewSupabase: %v", err)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.FixedZone("CET", 3600))
	if err := s.MarkDonated(context.Background(), "a@example.com", at); err != nil {
		t.Fatalf("MarkDonated: %v", err)
	}

	req := <-got
	if req.method != http.MethodPatch {
		t.Fatalf("method mismatch: got %s", req.method)
	}
	if req.path != "/rest/v1/user_profiles" {
		t.Fatalf("path mismatch: got %s", req.path)
	}
	if !strings.HasPrefix(req.filter, "eq.") || strings.Trim(strings.TrimPrefix(req.filter, "eq."), `"`) != "a@example.com" {
		t.Fatalf("filter mismatch: got %q", req.filter)
	}
	if req.apikey != "service-role" || req.auth != "Bearer service-role" {
		t.Fatalf("auth headers mismatch: apikey=%q authorization=%q", req.apikey, req.auth)
	}
	if req.body["paying_status"] != StatusDonated {
		t.Fatalf("paying_status mismatch: %#v", req.body)
	}
	if req.body["donation_date"] != "2024-05-01T09:00:00.123Z" {
		t.Fatalf("donation_date mismatch: %#v", req.body["donation_date"])
	}
}

func TestSupabaseMarkDonatedWrapsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewSupabase(url, "service-role")
	if err != nil {
		t.Fatalf("NewSupabase: %v", err)
	}
	err = s.MarkDonated(context.Background(), "a@example.com", time.Now())
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", err)
	}
}
