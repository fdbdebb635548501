// Package health exposes liveness and readiness probe handlers.
package health

import (
	"net/http"
	"sync/atomic"
)

// Checker tracks service readiness. Liveness is unconditional; readiness
// flips on once the catalogs are loaded and propagators initialized.
type Checker struct {
	ready atomic.Bool
}

// SetReady marks the service ready to serve scans.
func (c *Checker) SetReady() { c.ready.Store(true) }

// Healthz always reports alive.
func (c *Checker) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Readyz reports 503 until SetReady is called.
func (c *Checker) Readyz(w http.ResponseWriter, r *http.Request) {
	if !c.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
