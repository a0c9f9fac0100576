// Package httpapi is the HTTP request boundary. It parses and validates
// request input, authenticates the caller through SessionService and
// dispatches into the services, translating typed domain errors into status
// codes. No business rule lives here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pantrykeeper/internal/logging"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/config"
	"github.com/dmitrijs2005/pantrykeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	logger   logging.Logger
	sessions *services.SessionService
	users    *services.UserService
	products *services.ProductService
	limiter  *userRateLimiter
}

// NewServer wires the boundary to the three services.
func NewServer(l logging.Logger, ss *services.SessionService, us *services.UserService, ps *services.ProductService, cfg *config.Config) *Server {
	return &Server{
		address:  cfg.EndpointAddr,
		logger:   l.With("module", "http_server"),
		sessions: ss,
		users:    us,
		products: ps,
		limiter:  newUserRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
