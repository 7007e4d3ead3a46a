package main

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/bjornpagen/donations-webhook/internal/config"
)

// httpServer wraps http.Server with optional Let's Encrypt certificates.
type httpServer struct {
	server *http.Server
	certs  *autocert.Manager
}

func newHTTPServer(cfg config.Config, handler http.Handler) *httpServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	s := &httpServer{server: srv}
	if cfg.TLSDomain != "" {
		// TLS-ALPN-01 challenges are answered on this listener, so no :80 is needed.
		s.certs = &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLSDomain),
			Cache:      autocert.DirCache(cfg.TLSCacheDir),
		}
		srv.TLSConfig = s.certs.TLSConfig()
	}
	return s
}

// Start blocks serving HTTP, or HTTPS when a TLS domain is configured.
func (s *httpServer) Start() error {
	if s.certs != nil {
		return s.server.ListenAndServeTLS("", "")
	}
	return s.server.ListenAndServe()
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
