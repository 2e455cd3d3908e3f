package airport

import "sort"

// AllTypes is the Criteria.Type sentinel that matches every airport type.
const AllTypes = ""

// Default elevation bounds, in feet, of the range selector.
const (
	DefaultMinElevation = 0
	DefaultMaxElevation = 10000
)

// Criteria is the filter built from the current selector state.
type Criteria struct {
	Type         string   `json:"type" yaml:"type"`
	Regions      []Region `json:"regions" yaml:"regions"`
	MinElevation int      `json:"min_elevation" yaml:"min_elevation"`
	MaxElevation int      `json:"max_elevation" yaml:"max_elevation"`
}

// DefaultCriteria selects every type, every region and the full elevation
// range.
func DefaultCriteria() Criteria {
	return Criteria{
		Type:         AllTypes,
		Regions:      AllRegions(),
		MinElevation: DefaultMinElevation,
		MaxElevation: DefaultMaxElevation,
	}
}

// Match reports whether r satisfies every predicate of c.
// Elevation bounds are inclusive; records without a region or an elevation
// never match.
func (c Criteria) Match(r Record) bool {
	if !r.InNewEngland() {
		return false
	}
	if c.Type != AllTypes && r.Type != c.Type {
		return false
	}
	if !c.hasRegion(r.Region) {
		return false
	}

	elev, ok := r.ElevationFt()
	if !ok {
		return false
	}
	return elev >= c.MinElevation && elev <= c.MaxElevation
}

func (c Criteria) hasRegion(r Region) bool {
	for _, sel := range c.Regions {
		if sel == r {
			return true
		}
	}
	return false
}

// Universe returns the records that carry a region label, in input order.
func Universe(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.InNewEngland() {
			out = append(out, r)
		}
	}
	return out
}

// Apply returns the records matching c, preserving input order.
// The result is never nil; an empty slice is a valid outcome.
func Apply(records []Record, c Criteria) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Types lists the distinct airport types of the universe in order of first
// appearance.
func Types(records []Record) []string {
	seen := make(map[string]bool)
	types := make([]string, 0)
	for _, r := range records {
		if !r.InNewEngland() || seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	return types
}

// Regions lists the distinct regions present in records in order of first
// appearance.
func Regions(records []Record) []Region {
	seen := make(map[Region]bool)
	regions := make([]Region, 0)
	for _, r := range records {
		if !r.InNewEngland() || seen[r.Region] {
			continue
		}
		seen[r.Region] = true
		regions = append(regions, r.Region)
	}
	return regions
}

// RegionCount is one bar of the airports-per-region chart.
type RegionCount struct {
	Region Region `json:"region" yaml:"region"`
	Count  int    `json:"count" yaml:"count"`
	Color  Color  `json:"color" yaml:"color,flow"`
}

// CountByRegion counts records per region, largest first. Equal counts keep
// the display order of AllRegions.
func CountByRegion(records []Record) []RegionCount {
	counts := make(map[Region]int)
	for _, r := range records {
		if r.InNewEngland() {
			counts[r.Region]++
		}
	}

	out := make([]RegionCount, 0, len(counts))
	for _, region := range allRegions {
		n, ok := counts[region]
		if !ok {
			continue
		}
		color, _ := region.Color()
		out = append(out, RegionCount{Region: region, Count: n, Color: color})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out
}
