// Package auth provides optional bearer-token authentication middleware.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are reachable without a token: probes, metrics scraping and
// the pair listing, which exposes no orbital data beyond names.
var exemptPaths = map[string]bool{
	"/healthz":      true,
	"/readyz":       true,
	"/metrics":      true,
	"/api/v1/pairs": true,
}

// Middleware enforces a bearer token on non-exempt paths. An empty token
// disables authentication entirely.
func Middleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}

	want := []byte(token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exemptPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		got, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="sattosat"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}
