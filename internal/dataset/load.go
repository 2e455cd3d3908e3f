// Package dataset loads the OurAirports CSV into cleaned airport records and
// caches the result for the lifetime of the process.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/woozymasta/neairports/internal/airport"
)

// ErrMissingColumn is wrapped by Load when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// LoadError reports a dataset that could not be read or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RequiredColumns must be present in the header of every dataset.
var RequiredColumns = []string{
	"name",
	"type",
	"latitude_deg",
	"longitude_deg",
	"elevation_ft",
	"iso_region",
}

// DroppedColumns are removed when present; they are not used by any view.
var DroppedColumns = []string{
	"scheduled_service",
	"gps_code",
	"iata_code",
	"local_code",
	"home_link",
	"wikipedia_link",
	"keywords",
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) ([]airport.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	records, err := Load(f)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return records, nil
}

// Load parses an airports CSV. Rows without usable coordinates are dropped,
// region label and color are derived from iso_region.
func Load(r io.Reader) ([]airport.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	// text cells keep literal "NA"; numeric cells are checked by parseFloat
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		// gota refuses a frame without rows; a bare header is a valid empty dataset
		if header, ok := headerOnly(data); ok {
			if _, err := checkColumns(header); err != nil {
				return nil, err
			}
			return []airport.Record{}, nil
		}
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}

	present, err := checkColumns(df.Names())
	if err != nil {
		return nil, err
	}

	drop := make([]string, 0, len(DroppedColumns))
	for _, col := range DroppedColumns {
		if present[col] {
			drop = append(drop, col)
			delete(present, col)
		}
	}
	if len(drop) > 0 {
		df = df.Drop(drop)
		if df.Err != nil {
			return nil, fmt.Errorf("drop columns: %w", df.Err)
		}
	}

	column := func(name string) []string {
		if !present[name] {
			return nil
		}
		return df.Col(name).Records()
	}

	var (
		ids          = column("id")
		idents       = column("ident")
		names        = column("name")
		types        = column("type")
		lats         = column("latitude_deg")
		lons         = column("longitude_deg")
		elevations   = column("elevation_ft")
		isoRegions   = column("iso_region")
		municipality = column("municipality")
		records      = make([]airport.Record, 0, df.Nrow())
	)

	for i := 0; i < df.Nrow(); i++ {
		lat, ok := parseFloat(lats[i])
		if !ok {
			continue
		}
		lon, ok := parseFloat(lons[i])
		if !ok {
			continue
		}

		iso := cell(isoRegions, i)
		rec := airport.Record{
			ID:           cell(ids, i),
			Ident:        cell(idents, i),
			Name:         cell(names, i),
			Type:         cell(types, i),
			Latitude:     lat,
			Longitude:    lon,
			Elevation:    parseElevation(cell(elevations, i)),
			ISORegion:    iso,
			Municipality: cell(municipality, i),
		}

		if region, ok := airport.RegionForISO(iso); ok {
			rec.Region = region
			rec.Color, _ = region.Color()
		}

		records = append(records, rec)
	}

	return records, nil
}

// checkColumns verifies the required columns and returns the set of names.
func checkColumns(names []string) (map[string]bool, error) {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	for _, col := range RequiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return present, nil
}

// headerOnly reports whether data holds exactly one CSV row and returns it.
func headerOnly(data []byte) ([]string, bool) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 1 {
		return nil, false
	}
	return rows[0], true
}

// cell returns the trimmed value of row i, or "" for absent columns. Text is
// taken literally; numeric columns go through parseFloat.
func cell(col []string, i int) string {
	if col == nil {
		return ""
	}
	return strings.TrimSpace(col[i])
}

func isMissing(v string) bool {
	switch v {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if isMissing(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseElevation accepts integer feet and tolerates values written as
// floats ("123.0"), as exported by spreadsheet tools.
func parseElevation(raw string) *int {
	if raw == "" {
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return &v
	}
	f, ok := parseFloat(raw)
	if !ok {
		return nil
	}
	v := int(math.Round(f))
	return &v
}
