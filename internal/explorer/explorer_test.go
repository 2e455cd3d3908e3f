package explorer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/woozymasta/neairports/internal/airport"
	"github.com/woozymasta/neairports/internal/config"
	"github.com/woozymasta/neairports/internal/geo"
)

type staticRecords struct {
	records []airport.Record
	err     error
}

func (s staticRecords) Records(context.Context) ([]airport.Record, error) {
	return s.records, s.err
}

type fakeLocator struct {
	points map[string]geo.Point
	calls  int
}

func (f *fakeLocator) Locate(_ context.Context, address string) (geo.Point, bool) {
	f.calls++
	p, ok := f.points[address]
	return p, ok
}

type countRecorder struct{ sizes []int }

func (c *countRecorder) ObserveFiltered(n int) { c.sizes = append(c.sizes, n) }

func ft(v int) *int { return &v }

func record(name, typ string, region airport.Region, lat, lon float64, elev *int) airport.Record {
	r := airport.Record{Name: name, Type: typ, Region: region, Latitude: lat, Longitude: lon, Elevation: elev}
	r.Color, _ = region.Color()
	return r
}

var fixture = []airport.Record{
	record("Logan", "large_airport", airport.Massachusetts, 42.3643, -71.0052, ft(20)),
	record("Bradley", "large_airport", airport.Connecticut, 41.9389, -72.6832, ft(173)),
	record("Hanscom", "medium_airport", airport.Massachusetts, 42.4700, -71.2890, ft(133)),
	record("Burlington", "medium_airport", airport.Vermont, 44.4719, -73.1533, ft(335)),
	record("MGH Heliport", "heliport", airport.Massachusetts, 42.3628, -71.0686, nil),
	record("JFK", "large_airport", "", 40.6394, -73.7793, ft(13)),
	record("Mount Washington", "small_airport", airport.NewHampshire, 44.2706, -71.3036, ft(6288)),
}

var defaults = config.Defaults{Address: "Boston, MA", Nearest: 5, MinElevation: 0, MaxElevation: 10000}

func names(records []airport.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestExploreDefaultQuery(t *testing.T) {
	loc := &fakeLocator{points: map[string]geo.Point{"Boston, MA": {Lat: 42.3601, Lon: -71.0589}}}
	rec := &countRecorder{}
	svc := NewService(staticRecords{records: fixture}, loc, rec, defaults)

	res, err := svc.Explore(context.Background(), svc.DefaultQuery())
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}

	wantNames := []string{"Logan", "Bradley", "Hanscom", "Burlington", "Mount Washington"}
	if !reflect.DeepEqual(names(res.Records), wantNames) {
		t.Errorf("records = %v, want %v", names(res.Records), wantNames)
	}
	if res.Count != 5 || len(res.Warnings) != 0 {
		t.Errorf("count = %d, warnings = %v", res.Count, res.Warnings)
	}

	if res.Summary == nil {
		t.Fatal("summary missing")
	}
	if res.Summary.Max.Name != "Mount Washington" || res.Summary.Min.Name != "Logan" {
		t.Errorf("summary max/min = %s/%s", res.Summary.Max.Name, res.Summary.Min.Name)
	}

	if len(res.RegionCounts) == 0 || res.RegionCounts[0].Region != airport.Massachusetts || res.RegionCounts[0].Count != 2 {
		t.Errorf("region counts = %+v", res.RegionCounts)
	}
	if res.View == nil || res.View.Zoom != DefaultZoom || res.View.Pitch != DefaultPitch {
		t.Errorf("view = %+v", res.View)
	}

	if !res.NearestRequested || res.Origin == nil {
		t.Fatalf("nearest not computed: %+v", res)
	}
	if len(res.Nearest) != 5 || res.Nearest[0].Name != "Logan" || res.Nearest[1].Name != "Hanscom" {
		t.Errorf("nearest = %+v", res.Nearest)
	}
	if !reflect.DeepEqual(rec.sizes, []int{5}) {
		t.Errorf("recorded sizes = %v", rec.sizes)
	}
}

func TestExploreEndToEnd(t *testing.T) {
	records := []airport.Record{
		record("A", "small_airport", airport.Massachusetts, 42, -71, ft(100)),
		record("B", "small_airport", airport.Connecticut, 41.5, -72.5, ft(50)),
		record("C", "small_airport", "", 40.7, -74, ft(80)),
	}
	svc := NewService(staticRecords{records: records}, nil, nil, defaults)

	res, err := svc.Explore(context.Background(), Query{Criteria: airport.Criteria{
		Type:         airport.AllTypes,
		Regions:      []airport.Region{airport.Massachusetts, airport.Connecticut},
		MinElevation: 0,
		MaxElevation: 200,
	}})
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if got := names(res.Records); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("records = %v, want [A B]", got)
	}
	if res.NearestRequested {
		t.Error("nearest requested without address")
	}
}

func TestExploreEmptySelection(t *testing.T) {
	loc := &fakeLocator{points: map[string]geo.Point{"Boston, MA": {Lat: 42.36, Lon: -71.06}}}
	svc := NewService(staticRecords{records: fixture}, loc, nil, defaults)

	q := svc.DefaultQuery()
	q.Criteria.Regions = []airport.Region{}

	res, err := svc.Explore(context.Background(), q)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if !res.Empty() || res.Summary != nil || res.View != nil {
		t.Errorf("empty selection produced %+v", res)
	}
	if !reflect.DeepEqual(res.Warnings, []string{WarnNoData}) {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.RegionCounts == nil || len(res.RegionCounts) != 0 {
		t.Errorf("region counts = %#v", res.RegionCounts)
	}
	if res.Origin == nil || len(res.Nearest) != 0 {
		t.Errorf("nearest over empty selection = %+v", res.Nearest)
	}
}

func TestExploreAddressNotFound(t *testing.T) {
	loc := &fakeLocator{points: map[string]geo.Point{}}
	svc := NewService(staticRecords{records: fixture}, loc, nil, defaults)

	q := svc.DefaultQuery()
	q.Address = "Atlantis"

	res, err := svc.Explore(context.Background(), q)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if !reflect.DeepEqual(res.Warnings, []string{WarnAddressNotFound}) {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if res.Origin != nil || res.Nearest != nil {
		t.Errorf("nearest present after failed lookup: %+v", res.Nearest)
	}
	if !res.NearestRequested || res.Count == 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestExploreNearestBounds(t *testing.T) {
	loc := &fakeLocator{points: map[string]geo.Point{"here": {Lat: 42.36, Lon: -71.06}}}
	svc := NewService(staticRecords{records: fixture}, loc, nil, defaults)

	q := svc.DefaultQuery()
	q.Address = "here"

	q.Nearest = 2
	res, _ := svc.Explore(context.Background(), q)
	if len(res.Nearest) != 2 {
		t.Errorf("k=2 gave %d", len(res.Nearest))
	}

	q.Nearest = 0
	res, _ = svc.Explore(context.Background(), q)
	if len(res.Nearest) != defaults.Nearest {
		t.Errorf("k=0 gave %d, want default %d", len(res.Nearest), defaults.Nearest)
	}

	q.Nearest = 1000
	res, _ = svc.Explore(context.Background(), q)
	if len(res.Nearest) != len(res.Records) {
		t.Errorf("k=1000 gave %d, want all %d", len(res.Nearest), len(res.Records))
	}
}

func TestExploreDatasetError(t *testing.T) {
	wantErr := errors.New("dataset gone")
	svc := NewService(staticRecords{err: wantErr}, nil, nil, defaults)

	if _, err := svc.Explore(context.Background(), svc.DefaultQuery()); !errors.Is(err, wantErr) {
		t.Errorf("Explore error = %v", err)
	}
	if _, err := svc.Options(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Options error = %v", err)
	}
}

func TestOptions(t *testing.T) {
	svc := NewService(staticRecords{records: fixture}, &fakeLocator{}, nil, defaults)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if want := []string{"large_airport", "medium_airport", "heliport", "small_airport"}; !reflect.DeepEqual(opts.Types, want) {
		t.Errorf("types = %v, want %v", opts.Types, want)
	}
	if len(opts.Regions) != 4 || opts.Regions[0].Region != airport.Massachusetts || opts.Regions[0].Color != (airport.Color{255, 0, 0}) {
		t.Errorf("regions = %+v", opts.Regions)
	}
	if opts.MaxElevation != 10000 || opts.DefaultAddress != "Boston, MA" || !opts.Geocoding {
		t.Errorf("options = %+v", opts)
	}
}

func TestFeatureCollection(t *testing.T) {
	svc := NewService(staticRecords{}, nil, nil, defaults)

	fc := svc.FeatureCollection(fixture[:1])
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Properties["name"] != "Logan" || f.Properties["region_label"] != "Massachusetts" {
		t.Errorf("properties = %v", f.Properties)
	}
	if f.Properties["elevation_ft"] != 20 {
		t.Errorf("elevation_ft = %v", f.Properties["elevation_ft"])
	}

	if empty := svc.FeatureCollection(nil); empty.Features == nil {
		t.Error("empty collection has nil features")
	}
}
