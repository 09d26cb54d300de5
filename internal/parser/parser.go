package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// ClockLayout is the layout of checkpoint clocks on the command line.
	ClockLayout = "15:04:05.000"
	// StartLayout is the layout of stage start times.
	StartLayout = "2006-01-02 15:04"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// FmtDuration formats a time.Duration into a string in "MM:SS.ss" or
// "HH:MM:SS.ss" format.
func FmtDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := float64(d) / float64(time.Second)

	if h > 0 {
		if neg {
			return fmt.Sprintf("-%d:%02d:%05.2f", h, m, s)
		}
		return fmt.Sprintf("%d:%02d:%05.2f", h, m, s)
	}
	if neg {
		return fmt.Sprintf("-%d:%05.2f", m, s)
	}
	return fmt.Sprintf("%d:%05.2f", m, s)
}

// HMS parses a string in "MM:SS.sss" or "HH:MM:SS.sss" format into a time.Duration.
// It returns an error if the format is invalid.
func HMS(s string) (time.Duration, error) {
	var h, m int
	var sec float64
	var err error

	switch strings.Count(s, ":") {
	case 1:
		// MM:SS.sss
		_, err = fmt.Sscanf(s, "%d:%f", &m, &sec)
	case 2:
		// HH:MM:SS.sss
		_, err = fmt.Sscanf(s, "%d:%d:%f", &h, &m, &sec)
	default:
		return 0, fmt.Errorf("invalid time format %q", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid HMS value %q: %w", s, err)
	}
	if m < 0 || m > 59 || sec < 0 || sec >= 60 || h < 0 {
		return 0, fmt.Errorf("HMS value %q out of range", s)
	}

	duration := time.Duration(h) * time.Hour
	duration += time.Duration(m) * time.Minute
	duration += time.Duration(sec * float64(time.Second))
	return duration, nil
}

// ParseStart parses a stage start time in StartLayout, UTC.
func ParseStart(s string) (time.Time, error) {
	t, err := time.Parse(StartLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses a checkpoint clock. A bare clock ("10:02:31.500") is
// placed on the day of ref; a full RFC 3339 timestamp is taken as is.
func ParseClock(s string, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	layout := ClockLayout
	if !strings.Contains(s, ".") {
		layout = "15:04:05"
	}
	c, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	y, mo, d := ref.Date()
	return time.Date(y, mo, d, c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), ref.Location()), nil
}

// FmtClock formats a checkpoint clock in ClockLayout.
func FmtClock(t time.Time) string {
	return t.Format(ClockLayout)
}

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// replace all non-alphanum with '-'
	s = slugRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
