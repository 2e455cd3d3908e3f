package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/neairports/internal/airport"
	"github.com/woozymasta/neairports/internal/dataset"
	"github.com/woozymasta/neairports/internal/explorer"
	"github.com/woozymasta/neairports/internal/geo"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string `short:"i" long:"in"     description:"Input OurAirports CSV" default:"airports.csv"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	View   string `short:"v" long:"view"   description:"What to export" choice:"records" choice:"summary" choice:"regions" choice:"geojson" choice:"nearest" default:"records"`

	Type         string   `short:"t" long:"type"          description:"Airport type, all types if empty"`
	Regions      []string `short:"r" long:"region"        description:"Region label, repeatable; all regions if omitted"`
	MinElevation int      `long:"min-elevation" description:"Minimum elevation in feet" default:"0"`
	MaxElevation int      `long:"max-elevation" description:"Maximum elevation in feet" default:"10000"`

	Near    string `short:"n" long:"near"    description:"Origin as \"lat,lon\" for the nearest view"`
	Nearest int    `short:"k" long:"nearest" description:"Number of nearest airports" default:"5"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	criteria, err := buildCriteria(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	records, err := dataset.LoadFile(opts.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	filtered := airport.Apply(records, criteria)

	var out any
	switch opts.View {
	case "summary":
		summary, err := airport.Summarize(filtered)
		if err != nil {
			fmt.Fprintln(os.Stderr, "No data matches your filters.")
			os.Exit(1)
		}
		out = summary
	case "regions":
		out = airport.CountByRegion(filtered)
	case "geojson":
		out = explorer.FeatureCollection(filtered)
	case "nearest":
		origin, err := parsePoint(opts.Near)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --near: %v\n", err)
			os.Exit(1)
		}
		out = airport.RankNearest(origin, filtered, opts.Nearest)
	default:
		out = filtered
	}

	outputData, err := marshal(out, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Exported %d of %d airports to %s (view: %s, format: %s)\n",
			len(filtered), len(records), opts.Output, opts.View, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

func buildCriteria(opts Options) (airport.Criteria, error) {
	c := airport.DefaultCriteria()
	if opts.Type != "all" {
		c.Type = opts.Type
	}
	c.MinElevation = opts.MinElevation
	c.MaxElevation = opts.MaxElevation
	if c.MinElevation > c.MaxElevation {
		return c, fmt.Errorf("--min-elevation %d exceeds --max-elevation %d", c.MinElevation, c.MaxElevation)
	}

	if len(opts.Regions) > 0 {
		c.Regions = make([]airport.Region, 0, len(opts.Regions))
		for _, name := range opts.Regions {
			region, ok := airport.ParseRegion(name)
			if !ok {
				return c, fmt.Errorf("unknown region %q", name)
			}
			c.Regions = append(c.Regions, region)
		}
	}

	return c, nil
}

func parsePoint(s string) (geo.Point, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Point{}, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Point{}, err
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: la, Lon: lo}, nil
}

// marshal encodes v. GeoJSON goes through its JSON form first since orb
// geometries only implement JSON marshaling.
func marshal(v any, format string) ([]byte, error) {
	if format != "yaml" {
		return json.MarshalIndent(v, "", "  ")
	}

	if fc, ok := v.(*geojson.FeatureCollection); ok {
		raw, err := fc.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		v = generic
	}
	return yaml.Marshal(v)
}
