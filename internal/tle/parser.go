package tle

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// MalformedError reports a two-line element pair that could not be parsed.
type MalformedError struct {
	Line   int // 1 or 2
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed TLE line %d: %s", e.Line, e.Reason)
}

// ParsePair parses a single two-line element pair into a TLE.
// Returns a *MalformedError if either line cannot be parsed.
func ParsePair(name, line1, line2 string) (TLE, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")

	if !strings.HasPrefix(line1, "1 ") {
		return TLE{}, &MalformedError{Line: 1, Reason: "must start with '1 '"}
	}
	if !strings.HasPrefix(line2, "2 ") {
		return TLE{}, &MalformedError{Line: 2, Reason: "must start with '2 '"}
	}
	if len(line1) < 32 {
		return TLE{}, &MalformedError{Line: 1, Reason: fmt.Sprintf("length %d, need at least 32", len(line1))}
	}
	if len(line2) < 63 {
		return TLE{}, &MalformedError{Line: 2, Reason: fmt.Sprintf("length %d, need at least 63", len(line2))}
	}

	noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return TLE{}, &MalformedError{Line: 1, Reason: "invalid catalog number " + strings.TrimSpace(line1[2:7])}
	}

	// Epoch from line1 cols 19-32 (0-indexed 18..32).
	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return TLE{}, &MalformedError{Line: 1, Reason: err.Error()}
	}

	inc, err := parseField(line2, 8, 16)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid inclination: " + err.Error()}
	}
	raan, err := parseField(line2, 17, 25)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid RAAN: " + err.Error()}
	}
	// Eccentricity has an implied leading "0.".
	ecc, err := strconv.ParseFloat("0."+strings.TrimSpace(line2[26:33]), 64)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid eccentricity: " + err.Error()}
	}
	argp, err := parseField(line2, 34, 42)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid argument of perigee: " + err.Error()}
	}
	ma, err := parseField(line2, 43, 51)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid mean anomaly: " + err.Error()}
	}
	// Mean motion from line2 cols 53-63 (0-indexed 52..63).
	mm, err := parseField(line2, 52, 63)
	if err != nil {
		return TLE{}, &MalformedError{Line: 2, Reason: "invalid mean motion: " + err.Error()}
	}
	if mm <= 0 {
		return TLE{}, &MalformedError{Line: 2, Reason: fmt.Sprintf("mean motion %g out of range", mm)}
	}

	return TLE{
		NORADID:        noradID,
		Name:           strings.TrimSpace(name),
		Epoch:          epoch,
		Line1:          line1,
		Line2:          line2,
		InclinationDeg: inc,
		RAANDeg:        raan,
		Eccentricity:   ecc,
		ArgPerigeeDeg:  argp,
		MeanAnomalyDeg: ma,
		MeanMotion:     mm,
	}, nil
}

func parseField(line string, start, end int) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(line[start:end]), 64)
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to time.Time.
// Year 00-56 → 2000s, 57-99 → 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}

// Parse reads TLE data from r and returns the parsed entries in input order.
// Accepts both bare two-line pairs and three-line entries with a name line.
// Malformed entries are skipped with a warning log.
func Parse(r io.Reader, logger *slog.Logger) ([]TLE, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	var entries []TLE
	var name string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "1 ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "2 "):
			entry, err := ParsePair(name, line, lines[i+1])
			if err != nil {
				logger.Warn("skipping malformed TLE entry", "line_index", i, "name", name, "error", err)
			} else {
				entries = append(entries, entry)
			}
			name = ""
			i++
		case strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 "):
			logger.Warn("skipping orphan TLE line", "line_index", i)
			name = ""
		default:
			// Name line preceding a pair.
			name = line
		}
	}

	return entries, nil
}
