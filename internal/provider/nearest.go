package provider

import "time"

// Point is one daily observation.
type Point struct {
	Date  time.Time
	Price float64
}

// Nearest picks the observation for target, or the closest trading day within
// window days when target itself has none. Earlier days win ties, so a holiday
// resolves to the previous close. Non-positive prices are ignored.
func Nearest(points []Point, target time.Time, window int) (Point, bool) {
	byDay := make(map[time.Time]Point, len(points))
	for _, p := range points {
		if p.Price > 0 {
			byDay[day(p.Date, time.UTC)] = p
		}
	}

	t := day(target, time.UTC)
	if p, ok := byDay[t]; ok {
		return p, true
	}
	for offset := 1; offset <= window; offset++ {
		if p, ok := byDay[t.AddDate(0, 0, -offset)]; ok {
			return p, true
		}
		if p, ok := byDay[t.AddDate(0, 0, offset)]; ok {
			return p, true
		}
	}
	return Point{}, false
}

// Latest returns the most recent positive observation.
func Latest(points []Point) (Point, bool) {
	var best Point
	found := false
	for _, p := range points {
		if p.Price > 0 && (!found || p.Date.After(best.Date)) {
			best, found = p, true
		}
	}
	return best, found
}
