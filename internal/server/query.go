package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/woozymasta/neairports/internal/airport"
	"github.com/woozymasta/neairports/internal/explorer"
)

// QueryError reports an invalid query parameter.
type QueryError struct {
	Param string
	Msg   string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Msg)
}

// parseCriteria reads the filter parameters on top of def. An absent region
// parameter keeps def's regions; a present but empty one selects none.
func parseCriteria(values url.Values, def airport.Criteria) (airport.Criteria, error) {
	c := def

	switch t := strings.TrimSpace(values.Get("type")); t {
	case "", "all":
		c.Type = airport.AllTypes
	default:
		c.Type = t
	}

	if raw, ok := values["region"]; ok {
		regions := make([]airport.Region, 0, len(raw))
		seen := make(map[airport.Region]bool)
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				region, ok := airport.ParseRegion(part)
				if !ok {
					return c, &QueryError{Param: "region", Msg: fmt.Sprintf("unknown region %q", part)}
				}
				if !seen[region] {
					seen[region] = true
					regions = append(regions, region)
				}
			}
		}
		c.Regions = regions
	}

	var err error
	if c.MinElevation, err = intParam(values, "min_elevation", def.MinElevation); err != nil {
		return c, err
	}
	if c.MaxElevation, err = intParam(values, "max_elevation", def.MaxElevation); err != nil {
		return c, err
	}
	if c.MinElevation > c.MaxElevation {
		return c, &QueryError{Param: "min_elevation", Msg: "must not exceed max_elevation"}
	}

	return c, nil
}

// parseQuery reads a full explore query. Absent parameters fall back to def;
// the address does not, so no lookup runs unless one is given.
func parseQuery(values url.Values, def explorer.Query) (explorer.Query, error) {
	c, err := parseCriteria(values, def.Criteria)
	if err != nil {
		return explorer.Query{}, err
	}

	k, err := intParam(values, "nearest", def.Nearest)
	if err != nil {
		return explorer.Query{}, err
	}
	if k < 1 || k > explorer.MaxNearest {
		return explorer.Query{}, &QueryError{
			Param: "nearest",
			Msg:   fmt.Sprintf("must be between 1 and %d", explorer.MaxNearest),
		}
	}

	return explorer.Query{
		Criteria: c,
		Address:  strings.TrimSpace(values.Get("address")),
		Nearest:  k,
	}, nil
}

func intParam(values url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &QueryError{Param: name, Msg: "not an integer"}
	}
	return v, nil
}
