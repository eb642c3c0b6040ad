// cmd/web/main.go
//
// Sign-up service – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (conf/.env → conf/global.yaml → SIGNUP_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Init every registered component, so operator-supplied form
//     definitions are compiled before the first request.
//
//  4. Build the chi router:
//
//     • RequestID, RealIP, Recoverer  – chi stock middleware
//     • RequestLog                    – request-scoped zap logger
//     • Security                      – response security headers
//     • ForceHTTPS (optional)         – 308 to https:// off localhost
//     • /metrics                      – Prometheus exposition
//     • component routes              – mounted at "/"
//
//  5. Serve until SIGINT or SIGTERM, then drain in-flight requests for up to
//     http.shutdown_timeout.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/signup/internal/component"
	"github.com/yanizio/signup/internal/config"
	"github.com/yanizio/signup/internal/logger"
	"github.com/yanizio/signup/internal/middleware"
	"github.com/yanizio/signup/internal/server"

	_ "github.com/yanizio/signup/components/signup" // sign-up page and API
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.LogDir(), cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	handler, err := buildRouter(cfg, logOut)
	if err != nil {
		logOut.Fatalw("build router", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.HTTP.ListenAddr, handler, cfg.HTTP)
	if err := server.Serve(ctx, srv, cfg.HTTP.ShutdownTimeout); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Info("bye")
}

// buildRouter initialises components and assembles the middleware chain.
func buildRouter(cfg *config.Config, l *zap.SugaredLogger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestLog(l))
	r.Use(middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	r.Handle("/metrics", promhttp.Handler())

	//
	// Components: Init (optional) then mount.
	//
	for _, c := range component.All() {
		if in, ok := c.(component.Initializer); ok {
			if err := in.Init(cfg); err != nil {
				return nil, err
			}
		}
		r.Mount("/", c.Routes())
		l.Infow("component mounted", "name", c.Name())
	}

	return r, nil
}
