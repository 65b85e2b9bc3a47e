package record

import (
	"go/token"
	"strings"

	"savepipe/internal/common"
)

// Metadata keys understood by the pipeline.
const (
	// MarkerKey marks a declaration as a pipeline record.
	MarkerKey = "record"
	// BaseKey names the immediate predecessor of a record.
	BaseKey = "base"
)

// ID uniquely identifies a record by its package path and name.
type ID struct {
	PkgPath string // e.g., "savepipe/examples/inventory"
	Name    string // e.g., "SaveV2"
}

// String returns a human-readable representation of the ID.
func (id ID) String() string {
	if id.PkgPath == "" {
		return id.Name
	}

	return id.PkgPath + "." + id.Name
}

// Less orders IDs by package path, then name.
func (id ID) Less(other ID) bool {
	if id.PkgPath != other.PkgPath {
		return id.PkgPath < other.PkgPath
	}

	return id.Name < other.Name
}

// Kind classifies how a field is encoded and converted.
type Kind int

const (
	KindOpaque      Kind = iota // anything the generic value encoder handles
	KindPrimitive               // bool and numeric types, named or not
	KindRecord                  // another annotated record, encoded recursively
	KindEnum                    // named integer type with declared constants
	KindBoundedText             // string with a declared maximum length
	KindText                    // string without a length bound
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindPrimitive:
		return "primitive"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindBoundedText:
		return "bounded-text"
	case KindText:
		return "text"
	default:
		return common.UnknownStr
	}
}

// TypeRef describes a field's Go type well enough to name it in generated
// code and to decide whether two field types convert into each other.
type TypeRef struct {
	PkgPath string // empty for predeclared and unnamed types
	Name    string // empty for unnamed types
	Expr    string // fully qualified type expression, used for identity
	Basic   string // underlying basic type name (e.g. "int32"), empty if none
}

// Named reports whether the type has a name.
func (t TypeRef) Named() bool {
	return t.Name != ""
}

// Identical reports whether both references denote the same Go type.
func (t TypeRef) Identical(other TypeRef) bool {
	return t.Expr == other.Expr
}

// Numeric reports whether the underlying type is an integer or float type.
func (t TypeRef) Numeric() bool {
	switch t.Basic {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune", "float32", "float64":
		return true
	}

	return false
}

// Complex reports whether the underlying type is a complex type.
func (t TypeRef) Complex() bool {
	return t.Basic == "complex64" || t.Basic == "complex128"
}

// EnumValue is one declared constant of an enum type.
type EnumValue struct {
	Const string // constant identifier, e.g. "FlagV1Foo"
	Label string // symbolic label matched across versions, e.g. "Foo"
	Value int64
}

// Exported reports whether the constant can be named from another package.
func (v EnumValue) Exported() bool {
	return token.IsExported(v.Const)
}

// Enum is an integer type whose constants carry symbolic labels.
type Enum struct {
	Type   TypeRef
	Values []EnumValue
}

// Lookup returns the value carrying label, if any.
func (e *Enum) Lookup(label string) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Label == label {
			return v, true
		}
	}

	return EnumValue{}, false
}

// EnumLabel derives the symbolic label of an enum constant by trimming the
// enum type name when the constant is prefixed with it.
func EnumLabel(typeName, constName string) string {
	if label, ok := strings.CutPrefix(constName, typeName); ok && label != "" {
		return label
	}

	return constName
}

// Field is one field of a record, in declaration order.
type Field struct {
	Name      string
	Kind      Kind
	Type      TypeRef
	Exported  bool
	MaxLength int   // bounded text capacity in bytes, including the terminator slot
	Enum      *Enum // set for KindEnum
	Record    ID    // set for KindRecord
}

// Declaration is what a declaration provider reports for one struct type.
type Declaration struct {
	Name     string
	PkgPath  string
	PkgName  string
	Unit     string // path of the declaring source file
	Line     int
	Fields   []Field
	Metadata map[string]string
}

// Record is an annotated declaration frozen into the graph.
type Record struct {
	ID       ID
	PkgName  string
	Unit     string
	Line     int
	Fields   []Field
	Metadata map[string]string
}

// BaseName returns the declared predecessor name, or "" if none.
func (r *Record) BaseName() string {
	return strings.TrimSpace(r.Metadata[BaseKey])
}

// Field returns the field with the given name, if any.
func (r *Record) Field(name string) (*Field, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}

	return nil, false
}

// References returns the IDs of nested records in field order, without
// duplicates.
func (r *Record) References() []ID {
	var (
		out  []ID
		seen = make(map[ID]bool)
	)

	for _, f := range r.Fields {
		if f.Kind != KindRecord || seen[f.Record] {
			continue
		}

		seen[f.Record] = true
		out = append(out, f.Record)
	}

	return out
}

// Graph holds every record of one generation run.
type Graph struct {
	// Records maps IDs to records.
	Records map[ID]*Record
	// Order lists record IDs sorted by unit, then line.
	Order []ID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Records: make(map[ID]*Record)}
}

// Get returns the record with the given ID, or nil.
func (g *Graph) Get(id ID) *Record {
	return g.Records[id]
}

// All returns records in graph order.
func (g *Graph) All() []*Record {
	out := make([]*Record, 0, len(g.Order))
	for _, id := range g.Order {
		out = append(out, g.Records[id])
	}

	return out
}

// Units returns the distinct declaring units in graph order.
func (g *Graph) Units() []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)

	for _, id := range g.Order {
		unit := g.Records[id].Unit
		if !seen[unit] {
			seen[unit] = true
			out = append(out, unit)
		}
	}

	return out
}

// InUnit returns the records declared in unit, in declaration order.
func (g *Graph) InUnit(unit string) []*Record {
	var out []*Record

	for _, id := range g.Order {
		if r := g.Records[id]; r.Unit == unit {
			out = append(out, r)
		}
	}

	return out
}
