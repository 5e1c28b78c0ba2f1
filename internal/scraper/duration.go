package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownDuration is returned when no time unit can be recognized. Downstream
// it sorts such listings last and keeps them out of "ending soon" matches.
const UnknownDuration = 999.0

var (
	daysPattern    = regexp.MustCompile(`(\d+)d`)
	hoursPattern   = regexp.MustCompile(`(\d+)h`)
	minutesPattern = regexp.MustCompile(`(\d+)m`)
)

// ParseDuration converts a "time remaining" text such as "2d 3h 30m" into
// fractional hours. Missing units contribute zero; if nothing matches the
// UnknownDuration sentinel is returned.
func ParseDuration(text string) float64 {
	text = strings.ToLower(text)

	matched := false
	hours := 0.0

	if m := daysPattern.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		hours += float64(days) * 24
		matched = true
	}

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		hours += float64(h)
		matched = true
	}

	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		hours += float64(minutes) / 60
		matched = true
	}

	if !matched {
		return UnknownDuration
	}
	return hours
}
