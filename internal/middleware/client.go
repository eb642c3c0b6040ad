// internal/middleware/client.go
//
// Per-request client facts: address and a User-Agent fingerprint.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Client carries the attributes logged with every request.
//
// Example (Chrome on macOS):
//
//	IP        "203.0.113.9"
//	Browser   "BrowserChrome"
//	Version   "125.0.6422"
//	OS        "OSMacOSX"
//	Device    "Desktop"
//	IsBot     false
//
// Device is one of: "Desktop", "Mobile", "Tablet", or "Other".
type Client struct {
	IP      string
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
}

// ParseClient builds a Client from r.
func ParseClient(r *http.Request) Client {
	ua := surfer.Parse(r.UserAgent())

	c := Client{
		IP:      clientIP(r),
		Browser: ua.Browser.Name.String(),
		Version: versionToString(ua.Browser.Version),
		OS:      ua.OS.Name.String(),
		IsBot:   ua.IsBot(),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		c.Device = "Desktop"
	case surfer.DeviceTablet:
		c.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		c.Device = "Mobile"
	default:
		c.Device = "Other"
	}
	return c
}

type clientKey struct{}

// ClientFromContext returns the Client stored by RequestLog.  ok is false if
// the middleware has not run.
func ClientFromContext(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey{}).(Client)
	return c, ok
}

// clientIP extracts the left-most address from X-Forwarded-For or X-Real-IP,
// falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip.String()
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
