// Package server is the dashboard's HTTP surface: a JSON API that admits a
// session, accepts readings, and serves the derived consumption series the
// charts are built from.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BuddyApator/Energie-Buddy/internal/auth"
	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
	"github.com/BuddyApator/Energie-Buddy/internal/meter"
	"github.com/BuddyApator/Energie-Buddy/internal/settings"
	"github.com/BuddyApator/Energie-Buddy/internal/webutil"
)

const requestTimeout = 15 * time.Second

// Server wires the domain services behind the HTTP routes.
type Server struct {
	ledger      *ledger.Service
	auth        *auth.Service
	sessions    *auth.SessionManager
	settings    *settings.Store
	meterClient *meter.Client

	discoveryTimeout time.Duration
	// discover is swappable so handler tests don't touch the network.
	discover func(ctx context.Context, timeout time.Duration) (string, error)
}

func New(
	ledgerSvc *ledger.Service,
	authSvc *auth.Service,
	sessions *auth.SessionManager,
	settingsStore *settings.Store,
	meterClient *meter.Client,
	discoveryTimeout time.Duration,
) *Server {
	return &Server{
		ledger:           ledgerSvc,
		auth:             authSvc,
		sessions:         sessions,
		settings:         settingsStore,
		meterClient:      meterClient,
		discoveryTimeout: discoveryTimeout,
		discover:         meter.Discover,
	}
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", webutil.MakeHandler(s.handleRegister))
			r.Post("/login", webutil.MakeHandler(s.handleLogin))
			r.Post("/logout", webutil.MakeHandler(s.handleLogout))
			r.With(s.requireSession).Get("/session", webutil.MakeHandler(s.handleSession))
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Route("/readings", func(r chi.Router) {
				r.Get("/", webutil.MakeHandler(s.handleListReadings))
				r.Post("/", webutil.MakeHandler(s.handleCreateReading))
				r.Get("/recent", webutil.MakeHandler(s.handleRecentReadings))
			})

			r.Get("/dashboard", webutil.MakeHandler(s.handleDashboard))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", webutil.MakeHandler(s.handleGetSettings))
				r.Put("/", webutil.MakeHandler(s.handlePutSettings))
			})

			r.Route("/device", func(r chi.Router) {
				r.Post("/discover", webutil.MakeHandler(s.handleDiscover))
				r.Post("/poll", webutil.MakeHandler(s.handlePoll))
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
