package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM". The backlog
// sentinel renders as "--:--".
func FormatClock(minutes int) string {
	if minutes == Unscheduled {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

var durationUnitRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m|小时|时|分)`)

// ParseDurationFromUnit infers a length in minutes from free text such as
// "Read 30 mins", "2 hours" or "Chapter 1 (45m)". The first number that is
// directly followed by a unit wins.
func ParseDurationFromUnit(text string) (int, bool) {
	lower := strings.ToLower(text)
	match := durationUnitRe.FindStringSubmatch(lower)
	if match == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	switch match[2] {
	case "hour", "hours", "hr", "hrs", "h", "小时", "时":
		return int(math.Round(val * 60)), true
	default:
		return int(math.Round(val)), true
	}
}
