package airport

import (
	"sort"

	"github.com/woozymasta/neairports/internal/geo"
)

// DefaultNearest is the number of airports listed by the nearest search.
const DefaultNearest = 5

// RankNearest returns the k records closest to origin by great-circle
// distance, nearest first. Equal distances keep input order. The returned
// values are deep copies (see Record.Clone); records is left untouched.
func RankNearest(origin geo.Point, records []Record, k int) []Ranked {
	if k <= 0 || len(records) == 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, len(records))
	for i, r := range records {
		ranked[i] = Ranked{
			Record:        r.Clone(),
			DistanceMiles: geo.DistanceMiles(origin, r.Point()),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMiles < ranked[j].DistanceMiles
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
