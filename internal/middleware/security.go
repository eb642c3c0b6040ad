// internal/middleware/security.go
//
// Security-header middleware.
//
// Sets these headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self-only, plus inline styles for the form
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP; once a handler writes the status
//   line, later header changes are lost.  A handler may still override any of
//   them by calling Header().Set itself.
// • HSTS is skipped for plain-HTTP requests so local development on
//   http://localhost is not pinned to HTTPS by the browser.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// DefaultCSP allows the sign-up page's inline <style> block and nothing else
// from outside the origin.
const DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; object-src 'none'; base-uri 'self'; " +
	"form-action 'self'; frame-ancestors 'none'"

// Security sets security headers for every response using DefaultCSP.
func Security(next http.Handler) http.Handler {
	return SecurityWithCSP(DefaultCSP)(next)
}

// SecurityWithCSP is Security with a caller-supplied Content-Security-Policy.
func SecurityWithCSP(csp string) func(http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			if isHTTPS(r) {
				h.Set("Strict-Transport-Security", hsts)
			}
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Frame-Options", xfo)
			h.Set("X-Content-Type-Options", nosn)
			h.Set("Referrer-Policy", refer)
			h.Set("Permissions-Policy", perm)

			next.ServeHTTP(w, r)
		})
	}
}
