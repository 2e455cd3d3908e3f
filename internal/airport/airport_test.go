package airport

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/woozymasta/neairports/internal/geo"
)

func ft(v int) *int { return &v }

func rec(name, typ string, region Region, elev *int) Record {
	r := Record{Name: name, Type: typ, Region: region, Elevation: elev}
	if c, ok := region.Color(); ok {
		r.Color = c
	}
	return r
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestRegionLookups(t *testing.T) {
	tests := []struct {
		iso    string
		region Region
		color  Color
	}{
		{"US-MA", Massachusetts, Color{255, 0, 0}},
		{"US-CT", Connecticut, Color{0, 255, 0}},
		{"US-RI", RhodeIsland, Color{0, 0, 255}},
		{"US-NH", NewHampshire, Color{255, 255, 0}},
		{"US-VT", Vermont, Color{255, 165, 0}},
		{"US-ME", Maine, Color{128, 0, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			region, ok := RegionForISO(tt.iso)
			if !ok || region != tt.region {
				t.Fatalf("RegionForISO(%q) = %q, %v; want %q", tt.iso, region, ok, tt.region)
			}
			color, ok := region.Color()
			if !ok || color != tt.color {
				t.Errorf("%s.Color() = %v, %v; want %v", region, color, ok, tt.color)
			}
		})
	}

	for _, code := range []string{"US-NY", "CA-QC", "", "us-ma"} {
		if region, ok := RegionForISO(code); ok || region != "" {
			t.Errorf("RegionForISO(%q) = %q, %v; want unmapped", code, region, ok)
		}
	}

	if _, ok := Region("").Color(); ok {
		t.Error("empty region has a color")
	}
}

func TestParseRegion(t *testing.T) {
	if r, ok := ParseRegion("Rhode Island"); !ok || r != RhodeIsland {
		t.Errorf("ParseRegion(Rhode Island) = %q, %v", r, ok)
	}
	if _, ok := ParseRegion("New York"); ok {
		t.Error("ParseRegion accepted New York")
	}
}

func TestCriteriaMatch(t *testing.T) {
	base := Criteria{
		Type:         "small_airport",
		Regions:      []Region{Massachusetts, Vermont},
		MinElevation: 100,
		MaxElevation: 200,
	}

	tests := []struct {
		name string
		r    Record
		c    Criteria
		want bool
	}{
		{"all predicates hold", rec("a", "small_airport", Massachusetts, ft(150)), base, true},
		{"lower bound inclusive", rec("a", "small_airport", Massachusetts, ft(100)), base, true},
		{"upper bound inclusive", rec("a", "small_airport", Vermont, ft(200)), base, true},
		{"below lower bound", rec("a", "small_airport", Massachusetts, ft(99)), base, false},
		{"above upper bound", rec("a", "small_airport", Massachusetts, ft(201)), base, false},
		{"type mismatch", rec("a", "heliport", Massachusetts, ft(150)), base, false},
		{"region not selected", rec("a", "small_airport", Maine, ft(150)), base, false},
		{"no region label", rec("a", "small_airport", "", ft(150)), base, false},
		{"unknown elevation", rec("a", "small_airport", Massachusetts, nil), base, false},
		{
			"all types sentinel",
			rec("a", "heliport", Massachusetts, ft(150)),
			Criteria{Type: AllTypes, Regions: base.Regions, MinElevation: 100, MaxElevation: 200},
			true,
		},
		{
			"empty region selection",
			rec("a", "small_airport", Massachusetts, ft(150)),
			Criteria{Type: AllTypes, Regions: nil, MinElevation: 0, MaxElevation: 10000},
			false,
		},
		{
			"degenerate range",
			rec("a", "small_airport", Massachusetts, ft(150)),
			Criteria{Type: AllTypes, Regions: base.Regions, MinElevation: 150, MaxElevation: 150},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Match(tt.r); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEndToEnd(t *testing.T) {
	records := []Record{
		rec("A", "small_airport", Massachusetts, ft(100)),
		rec("B", "heliport", Connecticut, ft(50)),
		rec("C", "small_airport", "", ft(75)),
	}

	got := Apply(records, Criteria{
		Type:         AllTypes,
		Regions:      []Region{Massachusetts, Connecticut},
		MinElevation: 0,
		MaxElevation: 200,
	})

	if want := []string{"A", "B"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Apply = %v, want %v", names(got), want)
	}
}

func TestApplyPreservesOrderAndSource(t *testing.T) {
	records := []Record{
		rec("z", "small_airport", Maine, ft(10)),
		rec("y", "small_airport", Vermont, ft(5000)),
		rec("x", "small_airport", Maine, ft(20)),
	}
	before := make([]Record, len(records))
	copy(before, records)

	got := Apply(records, DefaultCriteria())
	if want := []string{"z", "y", "x"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("Apply = %v, want %v", names(got), want)
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("Apply modified its input")
	}

	empty := Apply(records, Criteria{Regions: []Region{Connecticut}, MaxElevation: 10000})
	if empty == nil || len(empty) != 0 {
		t.Errorf("Apply with no match = %#v, want empty non-nil slice", empty)
	}
}

func TestUniverseTypesRegions(t *testing.T) {
	records := []Record{
		rec("a", "heliport", Maine, ft(1)),
		rec("b", "large_airport", "", ft(1)),
		rec("c", "small_airport", Vermont, ft(1)),
		rec("d", "heliport", Maine, ft(1)),
	}

	if got := names(Universe(records)); !reflect.DeepEqual(got, []string{"a", "c", "d"}) {
		t.Errorf("Universe = %v", got)
	}
	if got := Types(records); !reflect.DeepEqual(got, []string{"heliport", "small_airport"}) {
		t.Errorf("Types = %v", got)
	}
	if got := Regions(records); !reflect.DeepEqual(got, []Region{Maine, Vermont}) {
		t.Errorf("Regions = %v", got)
	}
}

func TestCountByRegion(t *testing.T) {
	records := []Record{
		rec("a", "x", Vermont, ft(1)),
		rec("b", "x", Maine, ft(1)),
		rec("c", "x", Maine, ft(1)),
		rec("d", "x", Massachusetts, ft(1)),
		rec("e", "x", "", ft(1)),
	}

	got := CountByRegion(records)
	want := []RegionCount{
		{Region: Maine, Count: 2, Color: Color{128, 0, 128}},
		{Region: Massachusetts, Count: 1, Color: Color{255, 0, 0}},
		{Region: Vermont, Count: 1, Color: Color{255, 165, 0}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountByRegion = %+v, want %+v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		rec("low-first", "x", Maine, ft(10)),
		rec("high-first", "x", Maine, ft(900)),
		rec("mid", "x", Maine, ft(500)),
		rec("high-second", "x", Maine, ft(900)),
		rec("low-second", "x", Maine, ft(10)),
		rec("unknown", "x", Maine, nil),
	}

	s, err := Summarize(records)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.MaxElevation != 900 || s.Max.Name != "high-first" {
		t.Errorf("max = %d (%s), want 900 (high-first)", s.MaxElevation, s.Max.Name)
	}
	if s.MinElevation != 10 || s.Min.Name != "low-first" {
		t.Errorf("min = %d (%s), want 10 (low-first)", s.MinElevation, s.Min.Name)
	}
	if s.Count != 5 {
		t.Errorf("count = %d, want 5", s.Count)
	}
	if math.Abs(s.AverageElevation-464) > 1e-9 {
		t.Errorf("average = %f, want 464", s.AverageElevation)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	for name, records := range map[string][]Record{
		"nil":                nil,
		"empty":              {},
		"no known elevation": {rec("a", "x", Maine, nil)},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Summarize(records); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("Summarize error = %v, want ErrEmptyInput", err)
			}
		})
	}
}

func TestRankNearest(t *testing.T) {
	boston := geo.Point{Lat: 42.3601, Lon: -71.0589}

	airports := []Record{
		{Name: "Burlington International", Latitude: 44.4719, Longitude: -73.1533},
		{Name: "General Edward Lawrence Logan International", Latitude: 42.3643, Longitude: -71.0052},
		{Name: "Portland International Jetport", Latitude: 43.6462, Longitude: -70.3093},
		{Name: "Norwood Memorial", Latitude: 42.1905, Longitude: -71.1729},
		{Name: "Bradley International", Latitude: 41.9389, Longitude: -72.6832},
		{Name: "Rhode Island T F Green International", Latitude: 41.7267, Longitude: -71.4204},
		{Name: "Laurence G Hanscom Field", Latitude: 42.4700, Longitude: -71.2890},
		{Name: "Beverly Regional", Latitude: 42.5842, Longitude: -70.9165},
		{Name: "Manchester-Boston Regional", Latitude: 42.9326, Longitude: -71.4357},
	}
	before := make([]Record, len(airports))
	copy(before, airports)

	got := RankNearest(boston, airports, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}

	// brute force: pick the minimum remaining distance five times
	used := make(map[int]bool)
	for i := 0; i < 5; i++ {
		best := -1
		bestDist := math.Inf(1)
		for j, a := range airports {
			d := geo.DistanceMiles(boston, a.Point())
			if !used[j] && d < bestDist {
				best, bestDist = j, d
			}
		}
		used[best] = true

		if got[i].Name != airports[best].Name {
			t.Errorf("rank %d = %s, want %s", i, got[i].Name, airports[best].Name)
		}
		if math.Abs(got[i].DistanceMiles-bestDist) > 1e-9 {
			t.Errorf("rank %d distance = %f, want %f", i, got[i].DistanceMiles, bestDist)
		}
	}

	if got[0].Name != "General Edward Lawrence Logan International" {
		t.Errorf("nearest = %s, want Logan", got[0].Name)
	}
	for i := 1; i < len(got); i++ {
		if got[i].DistanceMiles < got[i-1].DistanceMiles {
			t.Errorf("results not ascending at %d", i)
		}
	}
	if !reflect.DeepEqual(airports, before) {
		t.Error("RankNearest modified its input")
	}
}

func TestRankNearestBounds(t *testing.T) {
	origin := geo.Point{Lat: 42, Lon: -71}
	records := []Record{
		{Name: "first", Latitude: 42.1, Longitude: -71},
		{Name: "second", Latitude: 42.1, Longitude: -71},
		{Name: "far", Latitude: 44, Longitude: -71},
	}

	if got := RankNearest(origin, records, 0); len(got) != 0 {
		t.Errorf("k=0 returned %d results", len(got))
	}
	if got := RankNearest(origin, nil, 5); len(got) != 0 {
		t.Errorf("empty input returned %d results", len(got))
	}

	got := RankNearest(origin, records, 10)
	if len(got) != 3 {
		t.Fatalf("k > n returned %d results, want 3", len(got))
	}
	if got[0].Name != "first" || got[1].Name != "second" || got[2].Name != "far" {
		t.Errorf("order = %s, %s, %s; ties must keep input order", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestRankNearestCopiesElevation(t *testing.T) {
	origin := geo.Point{Lat: 42, Lon: -71}
	records := []Record{{Name: "strip", Latitude: 42.1, Longitude: -71, Elevation: ft(300)}}

	got := RankNearest(origin, records, 1)
	if got[0].Elevation == records[0].Elevation {
		t.Fatal("ranked record shares the source elevation pointer")
	}

	*got[0].Elevation = 9999
	if elev, _ := records[0].ElevationFt(); elev != 300 {
		t.Errorf("source elevation changed to %d through the ranked copy", elev)
	}
}

func TestRecordClone(t *testing.T) {
	r := rec("A", "heliport", Maine, ft(12))
	c := r.Clone()
	if !reflect.DeepEqual(r, c) || c.Elevation == r.Elevation {
		t.Errorf("clone = %+v, want equal value with its own elevation", c)
	}

	if c := rec("B", "heliport", Maine, nil).Clone(); c.Elevation != nil {
		t.Errorf("nil elevation cloned to %d", *c.Elevation)
	}
}
