package plan

import (
	"sort"

	"savepipe/internal/record"
)

// ExternalDependencies returns the records rec refers to directly, through
// its base or a nested record field, that are declared in another unit.
// The result has no duplicates, never contains rec and is sorted by ID.
func ExternalDependencies(rec *record.Record, g *record.Graph) []*record.Record {
	var ids []record.ID

	if id, ok := BaseID(rec); ok {
		ids = append(ids, id)
	}

	ids = append(ids, rec.References()...)

	seen := map[record.ID]bool{rec.ID: true}

	var out []*record.Record

	for _, id := range ids {
		if seen[id] {
			continue
		}

		seen[id] = true

		dep := g.Get(id)
		if dep == nil || dep.Unit == rec.Unit {
			continue
		}

		out = append(out, dep)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Less(out[j].ID)
	})

	return out
}
