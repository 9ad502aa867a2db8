package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jinzhu/now"
)

var (
	ErrUnsupportedUnit   = errors.New("timeutil: unsupported time unit")
	ErrUnsupportedPeriod = errors.New("timeutil: unsupported calendar period")
	ErrMalformedDuration = errors.New("timeutil: malformed duration string")
)

// Unit is a supported time unit for scalar conversions.
type Unit string

const (
	UnitSeconds Unit = "seconds"
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
	UnitWeeks   Unit = "weeks"
)

func secondsPerUnit(unit Unit) (float64, error) {
	switch unit {
	case UnitSeconds:
		return 1, nil
	case UnitMinutes:
		return 60, nil
	case UnitHours:
		return 3600, nil
	case UnitDays:
		return 86400, nil
	case UnitWeeks:
		return 604800, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

// Convert converts a scalar duration value between units.
func Convert(value float64, from, to Unit) (float64, error) {
	fromSeconds, err := secondsPerUnit(from)
	if err != nil {
		return 0, err
	}
	toSeconds, err := secondsPerUnit(to)
	if err != nil {
		return 0, err
	}
	return value * fromSeconds / toSeconds, nil
}

// FormatDuration renders a duration as a short human string such as
// "2h 30m", "1d 4h" or "45s". At most the two most significant components
// are kept, so formatting is lossy; ParseDuration(FormatDuration(d)) is not
// guaranteed to round-trip.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	parts := make([]string, 0, 2)
	switch {
	case days > 0:
		parts = append(parts, fmt.Sprintf("%dd", days))
		if hours > 0 {
			parts = append(parts, fmt.Sprintf("%dh", hours))
		}
	case hours > 0:
		parts = append(parts, fmt.Sprintf("%dh", hours))
		if minutes > 0 {
			parts = append(parts, fmt.Sprintf("%dm", minutes))
		}
	default:
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// FormatRelativeTime renders t relative to a reference instant, e.g.
// "3 hours ago" or "5 minutes from now".
func FormatRelativeTime(t, reference time.Time) string {
	return humanize.RelTime(t, reference, "ago", "from now")
}

// ParseDuration parses human duration strings such as "2h 30m", "1d 4h"
// or "90s". Recognized suffixes are w, d, h, m and s. A malformed string
// is a programmer error and fails.
func ParseDuration(s string) (time.Duration, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}

	var total time.Duration
	for _, field := range fields {
		d, err := parseDurationToken(field)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
		}
		total += d
	}
	return total, nil
}

func parseDurationToken(token string) (time.Duration, error) {
	if len(token) < 2 {
		return 0, ErrMalformedDuration
	}

	suffix := token[len(token)-1]
	value, err := strconv.ParseFloat(token[:len(token)-1], 64)
	if err != nil || value < 0 {
		return 0, ErrMalformedDuration
	}

	var scale time.Duration
	switch suffix {
	case 'w':
		scale = 7 * 24 * time.Hour
	case 'd':
		scale = 24 * time.Hour
	case 'h':
		scale = time.Hour
	case 'm':
		scale = time.Minute
	case 's':
		scale = time.Second
	default:
		return 0, ErrMalformedDuration
	}

	return time.Duration(value * float64(scale)), nil
}

// Period is a supported calendar period for start/end calculations.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// StartOfPeriod returns the first instant of the calendar period containing t.
func StartOfPeriod(t time.Time, period Period) (time.Time, error) {
	n := now.With(t)
	switch period {
	case PeriodDay:
		return n.BeginningOfDay(), nil
	case PeriodWeek:
		return n.BeginningOfWeek(), nil
	case PeriodMonth:
		return n.BeginningOfMonth(), nil
	case PeriodYear:
		return n.BeginningOfYear(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, period)
	}
}

// EndOfPeriod returns the last instant of the calendar period containing t.
func EndOfPeriod(t time.Time, period Period) (time.Time, error) {
	n := now.With(t)
	switch period {
	case PeriodDay:
		return n.EndOfDay(), nil
	case PeriodWeek:
		return n.EndOfWeek(), nil
	case PeriodMonth:
		return n.EndOfMonth(), nil
	case PeriodYear:
		return n.EndOfYear(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, period)
	}
}

// FormatPosition renders a queue position as an ordinal ("1st", "11th").
// Zero and negative positions mean the party is next.
func FormatPosition(position int) string {
	if position <= 0 {
		return "Next"
	}
	return humanize.Ordinal(position)
}
