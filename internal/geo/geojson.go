// Package geo handles geographic points, distances and GeoJSON features.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Orb returns the point in orb's [lon, lat] order.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// NewFeatureCollection returns an empty collection that always encodes
// "features" as an array, never null.
func NewFeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = []*geojson.Feature{}
	return fc
}

// PointFeature builds a GeoJSON Point feature with the given properties.
func PointFeature(p Point, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(p.Orb())
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}
