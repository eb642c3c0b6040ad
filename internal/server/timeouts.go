// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (default 10 s)
//   • WriteTimeout  – cap total response time (default 15 s)
//   • IdleTimeout   – close keep-alives on idle clients (default 60 s)
//
// The values come from config.HTTP so operators can tune them per deployment
// without code changes.  Zero values fall back to the defaults above.
//

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/signup/internal/config"
)

const (
	defaultRead     = 10 * time.Second
	defaultWrite    = 15 * time.Second
	defaultIdle     = 60 * time.Second
	defaultShutdown = 10 * time.Second
)

// New constructs an *http.Server on addr with timeouts from cfg.
func New(addr string, handler http.Handler, cfg config.HTTP) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: orDefault(cfg.ReadTimeout, defaultRead),
		ReadTimeout:       orDefault(cfg.ReadTimeout, defaultRead),
		WriteTimeout:      orDefault(cfg.WriteTimeout, defaultWrite),
		IdleTimeout:       orDefault(cfg.IdleTimeout, defaultIdle),
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down, giving in-flight
// requests up to grace to finish.  It returns nil after a clean shutdown and
// the listener error if the server fails first.
func Serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), orDefault(grace, defaultShutdown))
		defer cancel()
		zap.S().Infow("http shutting down", "grace", orDefault(grace, defaultShutdown))
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
