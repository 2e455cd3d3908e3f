package airport

import "errors"

// ErrEmptyInput is returned by Summarize when there is nothing to summarize.
// Callers are expected to check for an empty selection first.
var ErrEmptyInput = errors.New("airport: no records with a known elevation to summarize")

// Summary holds elevation statistics of a selection.
type Summary struct {
	MaxElevation     int     `json:"max_elevation" yaml:"max_elevation"`
	Max              Record  `json:"max_airport" yaml:"max_airport"`
	MinElevation     int     `json:"min_elevation" yaml:"min_elevation"`
	Min              Record  `json:"min_airport" yaml:"min_airport"`
	AverageElevation float64 `json:"average_elevation" yaml:"average_elevation"`
	Count            int     `json:"count" yaml:"count"`
}

// Summarize computes max, min and mean elevation in a single pass.
// On ties the first record in input order wins. Records without an
// elevation are skipped.
func Summarize(records []Record) (Summary, error) {
	var (
		s     Summary
		total float64
	)

	for _, r := range records {
		elev, ok := r.ElevationFt()
		if !ok {
			continue
		}

		if s.Count == 0 || elev > s.MaxElevation {
			s.MaxElevation, s.Max = elev, r
		}
		if s.Count == 0 || elev < s.MinElevation {
			s.MinElevation, s.Min = elev, r
		}

		total += float64(elev)
		s.Count++
	}

	if s.Count == 0 {
		return Summary{}, ErrEmptyInput
	}

	s.AverageElevation = total / float64(s.Count)
	return s, nil
}
