package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusKm     = 6371.0
	earthRadiusMeters = earthRadiusKm * 1000
)

// Coordinates is a point on the sphere. Latitude is in [-90, 90],
// longitude in [-180, 180]; the validation layer guarantees the range.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Unit is a supported distance unit. Conversions pivot through meters.
type Unit string

const (
	UnitKilometers Unit = "km"
	UnitMeters     Unit = "m"
	UnitMiles      Unit = "mi"
	UnitFeet       Unit = "ft"
)

func metersPerUnit(unit Unit) (float64, error) {
	switch unit {
	case UnitKilometers:
		return 1000, nil
	case UnitMeters:
		return 1, nil
	case UnitMiles:
		return 1609.344, nil
	case UnitFeet:
		return 0.3048, nil
	default:
		return 0, fmt.Errorf("geo: unsupported distance unit %q", unit)
	}
}

// Convert converts a distance value between units.
func Convert(value float64, from, to Unit) (float64, error) {
	fromMeters, err := metersPerUnit(from)
	if err != nil {
		return 0, err
	}
	toMeters, err := metersPerUnit(to)
	if err != nil {
		return 0, err
	}
	return value * fromMeters / toMeters, nil
}

// Distance returns the great-circle (haversine) distance between two points
// in the requested unit.
func Distance(from, to Coordinates, unit Unit) (float64, error) {
	scale, err := metersPerUnit(unit)
	if err != nil {
		return 0, err
	}
	return distanceMeters(from, to) / scale, nil
}

func distanceMeters(from, to Coordinates) float64 {
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)
	deltaLat := toRadians(to.Lat - from.Lat)
	deltaLng := toRadians(to.Lng - from.Lng)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether point lies within radius of center.
func IsWithinRadius(point, center Coordinates, radius float64, unit Unit) (bool, error) {
	distance, err := Distance(point, center, unit)
	if err != nil {
		return false, err
	}
	return distance <= radius, nil
}

// BoundingBox is a rectangular lat/lng approximation of a circular search
// radius, used to pre-filter candidate venues before exact distance checks.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// BoundingBoxAround builds the box enclosing the circle of the given radius
// around center. The longitude span uses a planar secant approximation at
// the center latitude, so the box is an over-approximation, not an exact
// membership test.
func BoundingBoxAround(center Coordinates, radius float64, unit Unit) (BoundingBox, error) {
	scale, err := metersPerUnit(unit)
	if err != nil {
		return BoundingBox{}, err
	}
	radiusMeters := radius * scale

	latDelta := toDegrees(radiusMeters / earthRadiusMeters)
	lngDelta := 180.0
	if cosLat := math.Cos(toRadians(center.Lat)); cosLat > 0 {
		lngDelta = math.Min(180, latDelta/cosLat)
	}

	return BoundingBox{
		MinLat: math.Max(-90, center.Lat-latDelta),
		MaxLat: math.Min(90, center.Lat+latDelta),
		MinLng: NormalizeLongitude(center.Lng - lngDelta),
		MaxLng: NormalizeLongitude(center.Lng + lngDelta),
	}, nil
}

// Bearing returns the initial bearing (forward azimuth) in degrees from
// north, in [0, 360), to travel from one point to the other.
func Bearing(from, to Coordinates) float64 {
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)
	deltaLng := toRadians(to.Lng - from.Lng)

	y := math.Sin(deltaLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLng)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

// Destination solves the direct geodesic problem on the sphere: the point
// reached by travelling the given distance from start on the given initial
// bearing (degrees from north).
func Destination(start Coordinates, distance float64, bearing float64, unit Unit) (Coordinates, error) {
	scale, err := metersPerUnit(unit)
	if err != nil {
		return Coordinates{}, err
	}

	angular := distance * scale / earthRadiusMeters
	theta := toRadians(bearing)
	lat1 := toRadians(start.Lat)
	lng1 := toRadians(start.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Coordinates{
		Lat: toDegrees(lat2),
		Lng: NormalizeLongitude(toDegrees(lng2)),
	}, nil
}

// Midpoint returns the geographic midpoint of the great-circle arc between
// two points.
func Midpoint(a, b Coordinates) Coordinates {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	lng1 := toRadians(a.Lng)
	deltaLng := toRadians(b.Lng - a.Lng)

	bx := math.Cos(lat2) * math.Cos(deltaLng)
	by := math.Cos(lat2) * math.Sin(deltaLng)

	lat := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	lng := lng1 + math.Atan2(by, math.Cos(lat1)+bx)

	return Coordinates{
		Lat: toDegrees(lat),
		Lng: NormalizeLongitude(toDegrees(lng)),
	}
}

// FormatDistance renders a distance as a short human string, upgrading the
// unit when the value gets large: meters become kilometers at 1000 m and
// feet become miles at 5280 ft.
func FormatDistance(value float64, unit Unit) (string, error) {
	switch unit {
	case UnitMeters:
		if value >= 1000 {
			return fmt.Sprintf("%.1f km", value/1000), nil
		}
		return fmt.Sprintf("%.0f m", value), nil
	case UnitFeet:
		if value >= 5280 {
			return fmt.Sprintf("%.1f mi", value/5280), nil
		}
		return fmt.Sprintf("%.0f ft", value), nil
	case UnitKilometers:
		return fmt.Sprintf("%.1f km", value), nil
	case UnitMiles:
		return fmt.Sprintf("%.1f mi", value), nil
	default:
		return "", fmt.Errorf("geo: unsupported distance unit %q", unit)
	}
}

// NormalizeLongitude wraps a longitude into (-180, 180].
func NormalizeLongitude(lng float64) float64 {
	wrapped := math.Mod(lng+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	result := wrapped - 180
	if result <= -180 {
		result += 360
	}
	return result
}

func toRadians(degrees float64) float64 { return degrees * math.Pi / 180 }

func toDegrees(radians float64) float64 { return radians * 180 / math.Pi }
