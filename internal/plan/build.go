package plan

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"savepipe/internal/diagnostic"
	"savepipe/internal/record"
)

// Build resolves g into a plan. Problems are reported through the returned
// diagnostics; a unit that cannot be generated carries the reason in its
// Err field. Records of other units never refer to the methods of a failed
// unit: a base declared there is dropped and a nested record field typed
// there is encoded as an opaque value.
func Build(g *record.Graph) (*Plan, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	p := &Plan{
		Graph: g,
		bases: make(map[record.ID]*record.Record),
	}

	cycleOf := make(map[record.ID][]record.ID)

	for _, cycle := range DetectCycles(g) {
		names := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			names = append(names, id.Name)
		}

		names = append(names, cycle[0].Name)

		for _, id := range cycle {
			cycleOf[id] = cycle
			diags.AddError(diagnostic.CodeBaseCycle,
				"base chain loops back on itself: "+strings.Join(names, " -> "),
				id.String(), "")
		}
	}

	failed := make(map[string]bool)
	for id := range cycleOf {
		failed[g.Get(id).Unit] = true
	}

	for _, unit := range g.Units() {
		recs := g.InUnit(unit)

		up := UnitPlan{
			Unit:    unit,
			Dir:     filepath.Dir(unit),
			PkgPath: recs[0].ID.PkgPath,
			PkgName: recs[0].PkgName,
		}

		for _, rec := range recs {
			if cycle, ok := cycleOf[rec.ID]; ok {
				if up.Err == nil {
					up.Err = &CycleError{Unit: unit, Cycle: cycle}
				}

				up.Records = append(up.Records, RecordPlan{Record: rec, Tag: Tag(rec)})

				continue
			}

			base, diag := ResolveBase(rec, g)
			if diag != nil {
				diags.Add(*diag)
			}

			if !failed[unit] {
				if base != nil && failed[base.Unit] {
					diags.AddError(diagnostic.CodeBaseCycle,
						fmt.Sprintf("base %s is not generated because %s has a base cycle; "+
							"%s is generated without migration support", base.ID, base.Unit, rec.ID.Name),
						rec.ID.String(), "")

					base = nil
				}

				rec = detach(rec, g, failed, &diags)
			}

			if base != nil {
				p.bases[rec.ID] = base
			}

			up.Records = append(up.Records, RecordPlan{
				Record: rec,
				Base:   base,
				Tag:    Tag(rec),
				Deps:   available(ExternalDependencies(rec, g), failed),
			})
		}

		p.Units = append(p.Units, up)
	}

	if len(p.Units) == 0 {
		diags.AddInfo(diagnostic.CodeNoRecords, "no annotated records found", "", "")
	}

	return p, diags
}

// detach returns rec with every nested record field whose type is declared in
// a failed unit downgraded to an opaque value, since that type never gets its
// pipeline methods. rec itself is returned when nothing changes.
func detach(
	rec *record.Record,
	g *record.Graph,
	failed map[string]bool,
	diags *diagnostic.Diagnostics,
) *record.Record {
	var out *record.Record

	for i, f := range rec.Fields {
		if f.Kind != record.KindRecord {
			continue
		}

		dep := g.Get(f.Record)
		if dep == nil || !failed[dep.Unit] {
			continue
		}

		if out == nil {
			cp := *rec
			cp.Fields = slices.Clone(rec.Fields)
			out = &cp
		}

		out.Fields[i].Kind = record.KindOpaque

		diags.AddWarning(diagnostic.CodeUnavailable,
			fmt.Sprintf("%s is not generated because %s has a base cycle; "+
				"field is encoded as an opaque value", dep.ID, dep.Unit),
			rec.ID.String(), f.Name)
	}

	if out == nil {
		return rec
	}

	return out
}

// available drops the records declared in failed units.
func available(deps []*record.Record, failed map[string]bool) []*record.Record {
	return slices.DeleteFunc(deps, func(dep *record.Record) bool {
		return failed[dep.Unit]
	})
}
