package record

import (
	"maps"
	"slices"
	"sort"
)

// Collect builds a graph from the declarations a provider reported. Only
// declarations whose metadata holds MarkerKey are kept. A field the provider
// marked as a record candidate stays KindRecord only when its type is itself
// kept; otherwise it falls back to KindOpaque.
func Collect(decls []Declaration) *Graph {
	g := NewGraph()

	for _, d := range decls {
		if _, ok := d.Metadata[MarkerKey]; !ok {
			continue
		}

		id := ID{PkgPath: d.PkgPath, Name: d.Name}
		if g.Records[id] != nil {
			continue
		}

		rec := &Record{
			ID:       id,
			PkgName:  d.PkgName,
			Unit:     d.Unit,
			Line:     d.Line,
			Fields:   slices.Clone(d.Fields),
			Metadata: maps.Clone(d.Metadata),
		}
		if rec.Metadata == nil {
			rec.Metadata = map[string]string{}
		}

		g.Records[rec.ID] = rec
		g.Order = append(g.Order, rec.ID)
	}

	for _, rec := range g.Records {
		for i := range rec.Fields {
			f := &rec.Fields[i]
			if f.Kind == KindRecord && g.Records[f.Record] == nil {
				f.Kind = KindOpaque
				f.Record = ID{}
			}
		}
	}

	sort.SliceStable(g.Order, func(i, j int) bool {
		a, b := g.Records[g.Order[i]], g.Records[g.Order[j]]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.ID.Less(b.ID)
	})

	return g
}
