package kestrel

import (
	"math"
	"time"
)

// Epoch is the instant the meter counts its timestamps from. The meter keeps
// local wall clock time without a zone, so it is represented in UTC.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToTime converts seconds elapsed since epoch to a point in time.
func ToTime(epoch time.Time, secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return epoch.Add(time.Duration(whole) * time.Second).Add(time.Duration(math.Round(frac * float64(time.Second))))
}

// Gaps returns the index of every record that follows a pause of more than
// threshold seconds since the previous one.
func Gaps(timestamps []float64, threshold float64) []int {
	var gaps []int
	for i := 0; i+1 < len(timestamps); i++ {
		if timestamps[i+1]-timestamps[i] > threshold {
			gaps = append(gaps, i+1)
		}
	}
	return gaps
}
