package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kvsankar/sattosat/internal/conjunction"
	"github.com/kvsankar/sattosat/internal/envelope"
	"github.com/kvsankar/sattosat/internal/propagation"
	"github.com/kvsankar/sattosat/internal/tle"
)

// One-shot scan between two element-set files, for quick local checks
// without standing up the server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	pathA := os.Getenv("CONJSCAN_TLE_A")
	pathB := os.Getenv("CONJSCAN_TLE_B")
	if pathA == "" || pathB == "" {
		fmt.Println("CONJSCAN_TLE_A and CONJSCAN_TLE_B must point at TLE files")
		os.Exit(1)
	}

	ephA, catA := loadEphemeris(pathA, logger)
	ephB, catB := loadEphemeris(pathB, logger)

	aFirst, aLast := catA.EpochRange()
	bFirst, bLast := catB.EpochRange()
	fmt.Printf("Object A: %d snapshots, epochs %v .. %v\n", catA.Len(), aFirst, aLast)
	fmt.Printf("Object B: %d snapshots, epochs %v .. %v\n", catB.Len(), bFirst, bLast)

	start := aFirst
	if bFirst.After(start) {
		start = bFirst
	}
	if v := os.Getenv("CONJSCAN_ANCHOR"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			fmt.Println("ERROR parsing CONJSCAN_ANCHOR:", err)
			os.Exit(1)
		}
		start = t
	}

	days := envInt("CONJSCAN_DAYS", 7)
	threshold := float64(envInt("CONJSCAN_THRESHOLD_KM", 1000))

	w := conjunction.Window{
		Start: start,
		End:   start.Add(time.Duration(days) * 24 * time.Hour),
		Step:  conjunction.DefaultStep,
	}
	fmt.Printf("Scanning %v .. %v at %v cadence\n", w.Start, w.End, w.Step)

	f := &conjunction.Finder{A: ephA, B: ephB, ThresholdKm: threshold, Logger: logger}

	events, err := f.Scan(context.Background(), w)
	if err != nil {
		fmt.Println("ERROR scanning:", err)
		os.Exit(1)
	}

	within := 0
	for _, ev := range events {
		marker := " "
		if ev.DistanceKm < threshold {
			marker = "*"
			within++
		}
		fmt.Printf("%s %s  dist=%8.2f km  relvel=%5.2f km/s  A=(%.2f, %.2f)  B=(%.2f, %.2f)\n",
			marker, ev.Time.Format(time.RFC3339),
			ev.DistanceKm, ev.RelVelocityKmS,
			ev.A.LatDeg, ev.A.LonDeg, ev.B.LatDeg, ev.B.LonDeg)
	}
	fmt.Printf("\n%d local minima, %d within %.0f km\n", len(events), within, threshold)

	an := envelope.Analyze(events, envelope.DefaultPassGap, envelope.DefaultWindowSize, envelope.DefaultMinimumDedupe)
	fmt.Printf("%d passes\n", len(an.Passes))
	for _, m := range an.Minima {
		fmt.Printf("envelope minimum: %s at %.2f km\n", m.Time.Format(time.RFC3339), m.DistanceKm)
	}
	for i, p := range an.PeriodHours {
		fmt.Printf("envelope period %d: %.1f h\n", i, p)
	}
}

func loadEphemeris(path string, logger *slog.Logger) (*propagation.Ephemeris, *tle.Catalog) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Println("ERROR opening", path, ":", err)
		os.Exit(1)
	}
	defer f.Close()

	entries, err := tle.Parse(f, logger)
	if err != nil {
		fmt.Println("ERROR parsing", path, ":", err)
		os.Exit(1)
	}

	cat := tle.NewCatalog(entries)
	eph, err := propagation.NewEphemeris(cat)
	if err != nil {
		fmt.Println("ERROR initializing propagators for", path, ":", err)
		os.Exit(1)
	}
	return eph, cat
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		fmt.Printf("invalid %s value %q, using %d\n", name, v, def)
		return def
	}
	return n
}
