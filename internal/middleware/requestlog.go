// internal/middleware/requestlog.go
//
// Request-scoped logging.
//
// Context
// -------
// Sits directly after chi's RequestID.  For every request it:
//
//  1. Parses the client address and User-Agent (see ParseClient).
//  2. Derives a child logger carrying request_id, method, and path, and
//     stores it with logger.WithContext so handlers log through
//     logger.FromContext(r.Context()).
//  3. Logs one "http request" line after the handler returns, with status,
//     bytes written, and elapsed time.
//
// Notes
// -----
// • The client fingerprint is logged at DEBUG on the way in so INFO logs stay
//   one line per request.
// • Oxford commas, two spaces after periods.  No em dash.

package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/signup/internal/logger"
)

// RequestLog returns middleware that logs through base.  A nil base uses the
// global logger at call time.
func RequestLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			client := ParseClient(r)

			l := base
			if l == nil {
				l = zap.S()
			}
			l = l.With(
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			l.Debugw("request in",
				"ip", client.IP,
				"browser", client.Browser,
				"version", client.Version,
				"os", client.OS,
				"device", client.Device,
				"bot", client.IsBot,
			)

			ctx := logger.WithContext(r.Context(), l)
			ctx = context.WithValue(ctx, clientKey{}, client)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Infow("http request",
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
