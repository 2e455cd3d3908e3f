// Package airport holds the airport record model and the pure functions that
// filter, summarize and rank records.
package airport

import "github.com/woozymasta/neairports/internal/geo"

// Region is a New England state label derived from an ISO 3166-2 code.
// The empty Region means the record lies outside New England.
type Region string

// Recognized regions, in display order.
const (
	Massachusetts Region = "Massachusetts"
	Connecticut   Region = "Connecticut"
	RhodeIsland   Region = "Rhode Island"
	NewHampshire  Region = "New Hampshire"
	Vermont       Region = "Vermont"
	Maine         Region = "Maine"
)

// Color is an RGB triple used for map markers and the legend.
type Color [3]uint8

var (
	allRegions = []Region{Massachusetts, Connecticut, RhodeIsland, NewHampshire, Vermont, Maine}

	isoRegions = map[string]Region{
		"US-MA": Massachusetts,
		"US-CT": Connecticut,
		"US-RI": RhodeIsland,
		"US-NH": NewHampshire,
		"US-VT": Vermont,
		"US-ME": Maine,
	}

	regionColors = map[Region]Color{
		Massachusetts: {255, 0, 0},
		Connecticut:   {0, 255, 0},
		RhodeIsland:   {0, 0, 255},
		NewHampshire:  {255, 255, 0},
		Vermont:       {255, 165, 0},
		Maine:         {128, 0, 128},
	}
)

// AllRegions returns the six recognized regions in display order.
func AllRegions() []Region {
	out := make([]Region, len(allRegions))
	copy(out, allRegions)
	return out
}

// RegionForISO maps an ISO region code such as "US-MA" to its Region.
func RegionForISO(code string) (Region, bool) {
	r, ok := isoRegions[code]
	return r, ok
}

// ParseRegion accepts a region label exactly as it is displayed.
func ParseRegion(s string) (Region, bool) {
	r := Region(s)
	_, ok := regionColors[r]
	return r, ok
}

// Color returns the display color of the region.
func (r Region) Color() (Color, bool) {
	c, ok := regionColors[r]
	return c, ok
}

// Valid reports whether r is one of the recognized regions.
func (r Region) Valid() bool {
	_, ok := regionColors[r]
	return ok
}

// Record is one airport row after cleaning. Records are never modified once
// loaded.
type Record struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	Ident        string  `json:"ident,omitempty" yaml:"ident,omitempty"`
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	Latitude     float64 `json:"latitude_deg" yaml:"latitude_deg"`
	Longitude    float64 `json:"longitude_deg" yaml:"longitude_deg"`
	Elevation    *int    `json:"elevation_ft" yaml:"elevation_ft"`
	ISORegion    string  `json:"iso_region" yaml:"iso_region"`
	Municipality string  `json:"municipality,omitempty" yaml:"municipality,omitempty"`

	// Region is empty for records outside New England; Color is zero then.
	Region Region `json:"region_label,omitempty" yaml:"region_label,omitempty"`
	Color  Color  `json:"region_color" yaml:"region_color,flow"`
}

// Point returns the record location.
func (r Record) Point() geo.Point {
	return geo.Point{Lat: r.Latitude, Lon: r.Longitude}
}

// ElevationFt returns the elevation in feet and whether it is known.
func (r Record) ElevationFt() (int, bool) {
	if r.Elevation == nil {
		return 0, false
	}
	return *r.Elevation, true
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	if r.Elevation != nil {
		v := *r.Elevation
		r.Elevation = &v
	}
	return r
}

// InNewEngland reports whether the record belongs to the working universe.
func (r Record) InNewEngland() bool {
	return r.Region != ""
}

// Ranked is a record paired with its distance from a query point.
type Ranked struct {
	Record        `yaml:",inline"`
	DistanceMiles float64 `json:"distance_from_user" yaml:"distance_from_user"`
}
