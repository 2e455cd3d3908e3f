// Package explorer turns one dashboard interaction into a result bundle:
// the filtered records, their statistics, the per-region counts, the map
// view and the airports nearest to a user address.
package explorer

import (
	"context"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/neairports/internal/airport"
	"github.com/woozymasta/neairports/internal/config"
	"github.com/woozymasta/neairports/internal/geo"
)

// User-facing warnings.
const (
	WarnNoData          = "No data matches your filters."
	WarnAddressNotFound = "Could not locate the provided address. Please try again."
)

// Map view defaults for the scatter layer.
const (
	DefaultZoom  = 6
	DefaultPitch = 50
)

// MaxNearest bounds the nearest-airports list.
const MaxNearest = 50

// RecordSource provides the cached dataset.
type RecordSource interface {
	Records(ctx context.Context) ([]airport.Record, error)
}

// Recorder receives per-request measurements; it may be nil.
type Recorder interface {
	ObserveFiltered(n int)
}

// Query is the selector state of one interaction.
type Query struct {
	Criteria airport.Criteria
	Address  string
	Nearest  int
}

// MapView positions the map over the filtered airports.
type MapView struct {
	Center geo.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	Pitch  int       `json:"pitch"`
}

// Result is everything the presentation layer needs for one interaction.
type Result struct {
	Criteria     airport.Criteria      `json:"criteria"`
	Records      []airport.Record      `json:"records"`
	Count        int                   `json:"count"`
	Summary      *airport.Summary      `json:"summary,omitempty"`
	RegionCounts []airport.RegionCount `json:"region_counts"`
	View         *MapView              `json:"view,omitempty"`

	Address          string           `json:"address,omitempty"`
	Origin           *geo.Point       `json:"origin,omitempty"`
	Nearest          []airport.Ranked `json:"nearest,omitempty"`
	NearestRequested bool             `json:"nearest_requested"`

	Warnings []string `json:"warnings"`
}

// Empty reports whether no record matched the filters.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// RegionOption describes one selectable region and its legend color.
type RegionOption struct {
	Region airport.Region `json:"region"`
	Color  airport.Color  `json:"color"`
}

// Options describes the selectors offered to the user.
type Options struct {
	Types          []string       `json:"types"`
	Regions        []RegionOption `json:"regions"`
	MinElevation   int            `json:"min_elevation"`
	MaxElevation   int            `json:"max_elevation"`
	DefaultAddress string         `json:"default_address"`
	Nearest        int            `json:"nearest"`
	Geocoding      bool           `json:"geocoding"`
}

// Locator resolves addresses; see geocode.Locator.
type Locator interface {
	Locate(ctx context.Context, address string) (geo.Point, bool)
}

// Service runs queries against the cached dataset.
type Service struct {
	records  RecordSource
	locator  Locator
	recorder Recorder
	defaults config.Defaults
	geocode  bool
}

// NewService wires the pipeline. locator may be nil to disable the nearest
// airports feature.
func NewService(records RecordSource, locator Locator, recorder Recorder, defaults config.Defaults) *Service {
	return &Service{
		records:  records,
		locator:  locator,
		recorder: recorder,
		defaults: defaults,
		geocode:  locator != nil,
	}
}

// DefaultQuery returns the query matching the initial selector state.
func (s *Service) DefaultQuery() Query {
	c := airport.DefaultCriteria()
	c.MinElevation = s.defaults.MinElevation
	c.MaxElevation = s.defaults.MaxElevation
	return Query{Criteria: c, Address: s.defaults.Address, Nearest: s.defaults.Nearest}
}

// Options lists the selectable values of the current dataset.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, err
	}

	regions := make([]RegionOption, 0, 6)
	for _, r := range airport.Regions(records) {
		color, _ := r.Color()
		regions = append(regions, RegionOption{Region: r, Color: color})
	}

	return &Options{
		Types:          airport.Types(records),
		Regions:        regions,
		MinElevation:   s.defaults.MinElevation,
		MaxElevation:   s.defaults.MaxElevation,
		DefaultAddress: s.defaults.Address,
		Nearest:        s.defaults.Nearest,
		Geocoding:      s.geocode,
	}, nil
}

// Filter returns the records matching c from the cached dataset.
func (s *Service) Filter(ctx context.Context, c airport.Criteria) ([]airport.Record, error) {
	records, err := s.records.Records(ctx)
	if err != nil {
		return nil, err
	}
	return airport.Apply(records, c), nil
}

// Explore runs the full pipeline for q. Only a dataset failure is returned
// as an error; empty selections and failed lookups become warnings.
func (s *Service) Explore(ctx context.Context, q Query) (*Result, error) {
	filtered, err := s.Filter(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.ObserveFiltered(len(filtered))
	}

	res := &Result{
		Criteria:     q.Criteria,
		Records:      filtered,
		Count:        len(filtered),
		RegionCounts: []airport.RegionCount{},
		Warnings:     []string{},
	}

	if res.Empty() {
		res.Warnings = append(res.Warnings, WarnNoData)
	} else {
		summary, err := airport.Summarize(filtered)
		if err != nil {
			// unreachable: filtered records always carry an elevation
			log.Error().Err(err).Int("records", len(filtered)).Msg("Failed to summarize selection")
		} else {
			res.Summary = &summary
		}
		res.RegionCounts = airport.CountByRegion(filtered)
		res.View = mapView(filtered)
	}

	if q.Address != "" && s.locator != nil {
		s.nearest(ctx, q, res)
	}

	return res, nil
}

func (s *Service) nearest(ctx context.Context, q Query, res *Result) {
	res.Address = q.Address
	res.NearestRequested = true

	origin, ok := s.locator.Locate(ctx, q.Address)
	if !ok {
		res.Warnings = append(res.Warnings, WarnAddressNotFound)
		return
	}

	k := q.Nearest
	if k <= 0 {
		k = s.defaults.Nearest
	}
	if k > MaxNearest {
		k = MaxNearest
	}

	res.Origin = &origin
	res.Nearest = airport.RankNearest(origin, res.Records, k)
}

// FeatureCollection renders records as GeoJSON points for the map layer.
func (s *Service) FeatureCollection(records []airport.Record) *geojson.FeatureCollection {
	return FeatureCollection(records)
}

// FeatureCollection renders records as GeoJSON points with name, type,
// region, color and elevation properties.
func FeatureCollection(records []airport.Record) *geojson.FeatureCollection {
	fc := geo.NewFeatureCollection()
	for _, r := range records {
		props := map[string]interface{}{
			"name":         r.Name,
			"type":         r.Type,
			"region_label": string(r.Region),
			"region_color": r.Color,
		}
		if elev, ok := r.ElevationFt(); ok {
			props["elevation_ft"] = elev
		}
		if r.Ident != "" {
			props["ident"] = r.Ident
		}
		fc.Append(geo.PointFeature(r.Point(), props))
	}
	return fc
}

func mapView(records []airport.Record) *MapView {
	points := make([]geo.Point, 0, len(records))
	for _, r := range records {
		points = append(points, r.Point())
	}

	center, ok := geo.Centroid(points)
	if !ok {
		return nil
	}
	return &MapView{Center: center, Zoom: DefaultZoom, Pitch: DefaultPitch}
}
