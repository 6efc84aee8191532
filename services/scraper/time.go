package scraper

import (
	"regexp"
	"strconv"
	"time"
)

var (
	fullDateTimeRe = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})\s+(\d{1,2}):(\d{2})`)
	clockTimeRe    = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// rollForwardThreshold decides when a bare clock time is treated as
// tomorrow's: strictly more than 12 hours in the past relative to now.
const rollForwardThreshold = 12 * time.Hour

// inferStart parses musor.tv time text into an absolute start time.
//
// Two formats appear on the site: a full "2025.10.18 22:30" datetime, which
// is taken as-is, and a bare "01:30" clock time, which is anchored to today
// and rolled forward one day when it would otherwise lie more than 12 hours
// in the past. The roll covers listings scraped late in the evening for
// programmes airing after midnight. Text with no time at all falls back to
// now.
func inferStart(timeText string, now time.Time, loc *time.Location) time.Time {
	if m := fullDateTimeRe.FindStringSubmatch(timeText); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	}

	if m := clockTimeRe.FindStringSubmatch(timeText); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		// Exactly -12h stays on today; only a strictly larger gap rolls.
		if candidate.Sub(now) < -rollForwardThreshold {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate
	}

	return now
}
