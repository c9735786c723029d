package stopwatch

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

// Relative time buckets. Each Format applies while the duration is below D.
var magnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute", DivBy: time.Minute},
	{D: 45 * time.Minute, Format: "%d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour", DivBy: time.Hour},
	{D: 22 * time.Hour, Format: "%d hours", DivBy: time.Hour},
	{D: 2 * day, Format: "a day", DivBy: day},
	{D: 26 * day, Format: "%d days", DivBy: day},
	{D: 45 * day, Format: "a month", DivBy: month},
	{D: 320 * day, Format: "%d months", DivBy: month},
	{D: 2 * year, Format: "a year", DivBy: year},
	{D: math.MaxInt64, Format: "%d years", DivBy: year},
}

// rounding lists the unit a duration is rounded to below each bound, so
// 90s reads "2 minutes" and 50 days "2 months".
var rounding = []struct {
	below time.Duration
	unit  time.Duration
}{
	{45 * time.Second, 0},
	{45 * time.Minute, time.Minute},
	{22 * time.Hour, time.Hour},
	{26 * day, day},
	{320 * day, month},
	{math.MaxInt64, year},
}

// Humanize renders d as an approximate phrase such as "a few seconds" or
// "2 minutes". The sign of d is ignored.
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	for _, r := range rounding {
		if d < r.below {
			if r.unit > 0 {
				d = d.Round(r.unit)
			}
			break
		}
	}
	var origin time.Time
	return humanize.CustomRelTime(origin, origin.Add(d), "", "", magnitudes)
}
