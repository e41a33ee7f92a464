package layout

import (
	"sort"

	"floorplan/internal/domain"
)

// Overlaps returns, for every table that collides with at least one other
// table, the sorted IDs of the tables it collides with. The editor uses it
// to highlight conflicting tables.
func Overlaps(tables []domain.Table) map[string][]string {
	out := make(map[string][]string)
	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			a, b := tables[i], tables[j]
			if a.ID == b.ID {
				continue
			}
			if Collides(a.Placement(), b.Placement()) {
				out[a.ID] = append(out[a.ID], b.ID)
				out[b.ID] = append(out[b.ID], a.ID)
			}
		}
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}
