package queryapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// durationUnits lists recognized units longest-prefix-first so "ms" is
// consumed whole instead of matching "m" and leaving a dangling "s".
var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"ns", time.Nanosecond},
	{"us", time.Microsecond},
	{"µs", time.Microsecond},
	{"ms", time.Millisecond},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// ParseDuration parses the human-readable duration grammar accepted by the
// minDuration/maxDuration query parameters: an optional leading "-"
// followed by one or more digits-then-unit components concatenated with no
// separator (e.g. "1.2h30m45s120.2ms"). Any unconsumed remainder is a
// parse error.
func ParseDuration(s string) (time.Duration, error) {
	rest := s
	neg := false
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	}
	if rest == "" {
		return 0, fmt.Errorf("queryapi: empty duration %q", s)
	}

	var total time.Duration
	for len(rest) > 0 {
		numLen := digitsLen(rest)
		if numLen == 0 {
			return 0, fmt.Errorf("queryapi: invalid duration %q: expected digits at %q", s, rest)
		}
		numStr := rest[:numLen]
		rest = rest[numLen:]

		unit, unitLen, ok := matchUnit(rest)
		if !ok {
			return 0, fmt.Errorf("queryapi: invalid duration %q: unrecognized unit at %q", s, rest)
		}
		rest = rest[unitLen:]

		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return 0, fmt.Errorf("queryapi: invalid duration %q: %w", s, err)
		}
		total += time.Duration(val * float64(unit))
	}

	if neg {
		total = -total
	}
	return total, nil
}

// ParseOptionalDuration parses s with ParseDuration unless it is empty, in
// which case it returns (nil, nil): the "no filter supplied" case.
func ParseOptionalDuration(s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDuration(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func digitsLen(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i+1 {
			return j
		}
	}
	return i
}

func matchUnit(s string) (time.Duration, int, bool) {
	for _, u := range durationUnits {
		if strings.HasPrefix(s, u.suffix) {
			return u.unit, len(u.suffix), true
		}
	}
	return 0, 0, false
}
