package format

import (
	"math"
	"time"
)

const msPerDay = 86400000

// Location is the zone used to convert instants to and from serial dates.
var Location = time.Local

var epoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)

// ToSerial converts t into a serial date. The wall clock of t in Location
// is what gets encoded. There is no correction for the fictitious
// 1900-02-29, serials before 1900-03-01 are off by one day compared to
// other spreadsheet applications.
func ToSerial(t time.Time) float64 {
	t = t.In(Location)
	_, offset := t.Zone()
	ms := t.UnixMilli() + int64(offset)*1000 - epoch.UnixMilli()
	return float64(ms)/msPerDay + 1
}

// FromSerial is the inverse of ToSerial. The zone offset applied is the
// one of the resulting date so that serials on both sides of a daylight
// saving change round trip.
func FromSerial(serial float64) time.Time {
	var (
		ms   = int64(math.Round((serial - 1) * msPerDay))
		days = ms / msPerDay
		rest = ms % msPerDay
	)
	if rest < 0 {
		rest += msPerDay
		days--
	}
	wall := epoch.AddDate(0, 0, int(days)).Add(time.Duration(rest) * time.Millisecond)
	t := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), Location)
	return t
}
