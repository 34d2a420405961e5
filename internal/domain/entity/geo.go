package entity

import (
	"math"
	"regexp"
	"strings"

	"github.com/paulmach/orb"
)

// EarthRadiusMiles is the sphere radius used for store distances.
const EarthRadiusMiles = 3963.0

// MetersPerMile converts search radii for orb/geo, which works in meters.
const MetersPerMile = 1609.344

// DistanceMiles is the great-circle distance between two [lng, lat] points.
func DistanceMiles(a, b orb.Point) float64 {
	lat1, lat2 := deg2rad(a.Lat()), deg2rad(b.Lat())
	dLat := lat2 - lat1
	dLng := deg2rad(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ValidLocation reports whether p is a usable [lng, lat] pair.
func ValidLocation(p orb.Point) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lon() >= -180 && p.Lon() <= 180
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a store name into a URL slug.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
