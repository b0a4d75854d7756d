// Package requestmeta resolves the request-scoped attributes that enrich an
// accepted lead: client IP, country, user agent, and a coarse device label.
package requestmeta

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Meta carries per-request metadata. Empty fields mean the request did not
// supply the attribute; callers apply their own defaults.
type Meta struct {
	IP         string
	Country    string
	UserAgent  string
	Device     string
	ReceivedAt time.Time
}

type ctxKey string

const metaKey ctxKey = "leadintake.request_meta"

// WithMeta stores resolved metadata in context.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

// FromContext extracts metadata if the middleware has run.
func FromContext(ctx context.Context) (Meta, bool) {
	val := ctx.Value(metaKey)
	if val == nil {
		return Meta{}, false
	}
	meta, ok := val.(Meta)
	return meta, ok
}

// FromRequest resolves metadata directly from an HTTP request. The geo
// resolver may be nil, in which case country comes only from the
// CF-IPCountry header a fronting proxy may have stamped.
func FromRequest(r *http.Request, geo *GeoResolver) Meta {
	ip := clientIP(r)
	ua := strings.TrimSpace(r.Header.Get("User-Agent"))
	return Meta{
		IP:         ip,
		Country:    countryFor(r.Header.Get("CF-IPCountry"), geo, ip),
		UserAgent:  ua,
		Device:     DeviceClass(ua),
		ReceivedAt: time.Now().UTC(),
	}
}

// Middleware resolves metadata once per request and stores it on the
// context for downstream handlers.
func Middleware(geo *GeoResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithMeta(r.Context(), FromRequest(r, geo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP strips the port from the remote address. The router's RealIP
// middleware has already folded X-Forwarded-For / X-Real-Ip into
// RemoteAddr before this runs.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// countryFor prefers the proxy-stamped country header, falling back to a
// local GeoIP lookup. "XX" is the header's own unknown marker.
func countryFor(header string, geo *GeoResolver, ip string) string {
	if c := strings.ToUpper(strings.TrimSpace(header)); c != "" && c != "XX" {
		return c
	}
	return geo.Country(ip)
}
