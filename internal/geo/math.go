package geo

import (
	orbgeo "github.com/paulmach/orb/geo"
)

// MetersPerMile is the length of an international statute mile.
const MetersPerMile = 1609.344

// DistanceMiles returns the great-circle distance between a and b in miles.
//
// The haversine formula is used on orb's spherical earth model (equatorial
// radius). It deviates from the WGS84 ellipsoidal geodesic by up to about
// 0.5%, so two airports at nearly the same distance may rank in the other
// order than an ellipsoidal computation would give.
func DistanceMiles(a, b Point) float64 {
	return orbgeo.DistanceHaversine(a.Orb(), b.Orb()) / MetersPerMile
}

// Centroid returns the arithmetic mean of the given points.
// ok is false when points is empty.
func Centroid(points []Point) (c Point, ok bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}

	n := float64(len(points))
	return Point{Lat: lat / n, Lon: lon / n}, true
}
