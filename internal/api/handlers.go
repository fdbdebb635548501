package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kvsankar/sattosat/internal/conjunction"
	"github.com/kvsankar/sattosat/internal/envelope"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

type pairInfo struct {
	Name        string    `json:"name"`
	SnapshotsA  int       `json:"snapshots_a"`
	SnapshotsB  int       `json:"snapshots_b"`
	WindowStart time.Time `json:"window_start"`
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	out := make([]pairInfo, 0, len(s.pairs.Names()))
	for _, name := range s.pairs.Names() {
		p, _ := s.pairs.Get(name)
		out = append(out, pairInfo{
			Name:        p.Name,
			SnapshotsA:  p.CatA.Len(),
			SnapshotsB:  p.CatB.Len(),
			WindowStart: p.WindowStart(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pairs": out})
}

// scanParams are the per-request scan settings, defaulted from config.
type scanParams struct {
	pair      *Pair
	window    conjunction.Window
	threshold float64
}

func (s *Server) parseScanParams(r *http.Request) (scanParams, int, error) {
	q := r.URL.Query()

	name := q.Get("pair")
	if name == "" {
		return scanParams{}, http.StatusBadRequest, fmt.Errorf("missing required parameter: pair")
	}
	p, ok := s.pairs.Get(name)
	if !ok {
		return scanParams{}, http.StatusNotFound, fmt.Errorf("unknown pair: %s", name)
	}

	days := s.cfg.Scan.WindowDays
	if v := q.Get("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 || d > 120 {
			return scanParams{}, http.StatusBadRequest, fmt.Errorf("days must be an integer in [1, 120]")
		}
		days = d
	}

	step := s.cfg.Step()
	if v := q.Get("step_s"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec < 1 || sec > 3600 {
			return scanParams{}, http.StatusBadRequest, fmt.Errorf("step_s must be an integer in [1, 3600]")
		}
		step = time.Duration(sec) * time.Second
	}

	threshold := s.cfg.Scan.ThresholdKm
	if v := q.Get("threshold_km"); v != "" {
		km, err := strconv.ParseFloat(v, 64)
		if err != nil || km <= 0 {
			return scanParams{}, http.StatusBadRequest, fmt.Errorf("threshold_km must be a positive number")
		}
		threshold = km
	}

	start := p.WindowStart()
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return scanParams{}, http.StatusBadRequest, fmt.Errorf("start must be RFC 3339: %v", err)
		}
		start = t
	}

	return scanParams{
		pair: p,
		window: conjunction.Window{
			Start: start,
			End:   start.Add(time.Duration(days) * 24 * time.Hour),
			Step:  step,
		},
		threshold: threshold,
	}, http.StatusOK, nil
}

func (s *Server) finder(sp scanParams) *conjunction.Finder {
	return &conjunction.Finder{
		A:           sp.pair.A,
		B:           sp.pair.B,
		ThresholdKm: sp.threshold,
		Precision:   s.cfg.Precision(),
		Workers:     s.cfg.Scan.Workers,
		Logger:      s.logger,
	}
}

func (s *Server) handleConjunctions(w http.ResponseWriter, r *http.Request) {
	sp, status, err := s.parseScanParams(r)
	if err != nil {
		writeError(w, status, "%v", err)
		return
	}

	events, err := s.finder(sp).Find(r.Context(), sp.window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan failed: %v", err)
		return
	}
	if events == nil {
		events = []conjunction.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pair":         sp.pair.Name,
		"window_start": sp.window.Start,
		"window_end":   sp.window.End,
		"step_s":       int(sp.window.Step.Seconds()),
		"threshold_km": sp.threshold,
		"events":       events,
	})
}

func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	sp, status, err := s.parseScanParams(r)
	if err != nil {
		writeError(w, status, "%v", err)
		return
	}

	// The envelope needs every local minimum, not just those under the
	// threshold.
	events, err := s.finder(sp).Scan(r.Context(), sp.window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan failed: %v", err)
		return
	}

	an := envelope.Analyze(events, s.cfg.PassGap(), s.cfg.Envelope.WindowSize, s.cfg.Dedupe())
	if an.Passes == nil {
		an.Passes = []envelope.Pass{}
	}
	if an.Minima == nil {
		an.Minima = []envelope.Minimum{}
	}
	if an.PeriodHours == nil {
		an.PeriodHours = []float64{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pair":         sp.pair.Name,
		"window_start": sp.window.Start,
		"window_end":   sp.window.End,
		"analysis":     an,
	})
}
