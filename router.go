package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

func newRouter(logger zerolog.Logger, ratePerMinute int, stripeHandler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		middleware.RealIP,
		requestLogger(logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", health)

	// Stripe retries non-2xx deliveries on its own schedule, so a 429 here
	// only delays an event.
	r.With(httprate.LimitByIP(ratePerMinute, time.Minute)).Post("/stripe", stripeHandler)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
