package plan

import (
	"fmt"
	"strings"

	"savepipe/internal/record"
)

// Plan is the resolved input of code generation.
type Plan struct {
	Graph *record.Graph
	Units []UnitPlan

	bases map[record.ID]*record.Record
}

// Base returns the resolved predecessor of the record with the given ID, or
// nil when it has none, it did not resolve, or it belongs to a failed unit.
func (p *Plan) Base(id record.ID) *record.Record {
	return p.bases[id]
}

// Unit returns the plan of the named unit, or nil.
func (p *Plan) Unit(unit string) *UnitPlan {
	for i := range p.Units {
		if p.Units[i].Unit == unit {
			return &p.Units[i]
		}
	}

	return nil
}

// UnitPlan describes one source file and the records it declares.
type UnitPlan struct {
	Unit    string // path of the declaring source file
	Dir     string
	PkgPath string
	PkgName string
	Records []RecordPlan
	// Err is set when the unit must not be generated.
	Err error
}

// RecordPlan is everything the emitters need for one record.
type RecordPlan struct {
	Record *record.Record
	Base   *record.Record
	Tag    int32
	// Deps lists records declared in other units that this record refers to
	// through its base or its nested record fields.
	Deps []*record.Record
}

// CycleError reports a predecessor chain that loops back on itself.
type CycleError struct {
	Unit  string
	Cycle []record.ID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, 0, len(e.Cycle)+1)
	for _, id := range e.Cycle {
		names = append(names, id.Name)
	}

	if len(e.Cycle) > 0 {
		names = append(names, e.Cycle[0].Name)
	}

	return fmt.Sprintf("base cycle in %s: %s", e.Unit, strings.Join(names, " -> "))
}
