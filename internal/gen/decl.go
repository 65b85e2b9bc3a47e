package gen

import (
	"sort"

	"github.com/dave/jennifer/jen"

	"savepipe/internal/plan"
	"savepipe/internal/record"
)

// EmitTag generates the SavePipeTag method of the record of rp.
func EmitTag(rp plan.RecordPlan) jen.Code {
	name := rp.Record.ID.Name

	return jen.Commentf("%s returns the version tag of %s.", tagMethod, name).
		Line().
		Func().Params(jen.Id(name)).Id(tagMethod).Params().Int32().
		Block(jen.Return(jen.Lit(int(rp.Tag))))
}

// assertions declares that every listed record implements the runtime
// interface, as one var block.
func assertions(ids []record.ID) jen.Code {
	defs := make([]jen.Code, 0, len(ids))
	for _, id := range ids {
		defs = append(defs,
			jen.Id("_").Qual(RuntimePath, "Record").Op("=").
				Parens(jen.Op("*").Add(typeOf(id))).Parens(jen.Nil()))
	}

	return jen.Var().Defs(defs...)
}

// unitDeps merges the external dependencies of every record of up.
func unitDeps(up *plan.UnitPlan) []*record.Record {
	seen := make(map[record.ID]bool)

	var deps []*record.Record

	for _, rp := range up.Records {
		for _, dep := range rp.Deps {
			if seen[dep.ID] {
				continue
			}

			seen[dep.ID] = true
			deps = append(deps, dep)
		}
	}

	sort.Slice(deps, func(i, j int) bool {
		return deps[i].ID.Less(deps[j].ID)
	})

	return deps
}

// declarationFile builds the declaration artifact of up: an assertion block
// for its own records, one for the records of other units they refer to, and
// the tag methods.
func declarationFile(up *plan.UnitPlan) *jen.File {
	f := newFile(up)

	own := make([]record.ID, 0, len(up.Records))
	for _, rp := range up.Records {
		own = append(own, rp.Record.ID)
	}

	f.Add(assertions(own))

	if deps := unitDeps(up); len(deps) > 0 {
		ids := make([]record.ID, 0, len(deps))
		for _, dep := range deps {
			ids = append(ids, dep.ID)
			importDep(f, up, dep)
		}

		f.Line()
		f.Comment("Records declared in other files.")
		f.Add(assertions(ids))
	}

	for _, rp := range up.Records {
		f.Line()
		f.Add(EmitTag(rp))
	}

	return f
}
