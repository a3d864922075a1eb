package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadCoordinates = errors.New("routes: bad coordinates")

type Route struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

type GpsPoint struct {
	ID         int64
	RouteID    int64
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}

type RouteWithPoints struct {
	Route
	Points []GpsPoint
}

// LastPoint самая поздняя точка маршрута.
func (r RouteWithPoints) LastPoint() (GpsPoint, bool) {
	if len(r.Points) == 0 {
		return GpsPoint{}, false
	}
	last := r.Points[0]
	for _, p := range r.Points[1:] {
		if p.RecordedAt.After(last.RecordedAt) || (p.RecordedAt.Equal(last.RecordedAt) && p.ID > last.ID) {
			last = p
		}
	}
	return last, true
}

func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrBadCoordinates, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrBadCoordinates, lon)
	}
	return nil
}

// ParseCoordinates "43.2630, -2.9350" или "43.2630 -2.9350".
func ParseCoordinates(s string) (lat, lon float64, err error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: want \"lat, lon\", got %q", ErrBadCoordinates, s)
	}
	lat, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q", ErrBadCoordinates, fields[0])
	}
	lon, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q", ErrBadCoordinates, fields[1])
	}
	if err := ValidateCoordinates(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// FormatPoint координаты с 4 знаками после запятой.
func FormatPoint(p GpsPoint) string {
	return fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
}
