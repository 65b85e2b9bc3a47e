package analyze

import (
	"go/constant"
	"go/token"
	"go/types"
	"sort"

	"savepipe/internal/record"
)

// typeRef describes t for the record model.
func typeRef(t types.Type) record.TypeRef {
	t = unalias(t)
	ref := record.TypeRef{Expr: types.TypeString(t, nil)}

	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		ref.Name = obj.Name()

		if obj.Pkg() != nil {
			ref.PkgPath = obj.Pkg().Path()
		}

	case *types.Basic:
		ref.Name = tt.Name()
	}

	if b, ok := t.Underlying().(*types.Basic); ok {
		ref.Basic = b.Name()
	}

	return ref
}

// classify decides how a field of type t is encoded. Named structs are
// reported as record candidates; record.Collect keeps them as records only if
// they are annotated themselves.
func classify(name string, t types.Type, tag fieldTag) record.Field {
	t = unalias(t)

	f := record.Field{
		Name:     name,
		Kind:     record.KindOpaque,
		Type:     typeRef(t),
		Exported: token.IsExported(name),
	}

	named, isNamed := t.(*types.Named)
	if isNamed && named.TypeArgs().Len() > 0 {
		return f
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		if isNamed && named.Obj().Pkg() != nil {
			f.Kind = record.KindRecord
			f.Record = record.ID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}
		}

	case *types.Basic:
		switch {
		case u.Info()&types.IsString != 0:
			f.Kind = record.KindText
			if tag.maxLen > 0 {
				f.Kind = record.KindBoundedText
				f.MaxLength = tag.maxLen
			}

		case isNamed && u.Info()&types.IsInteger != 0:
			f.Kind = record.KindPrimitive
			if enum := enumOf(named); enum != nil {
				f.Kind = record.KindEnum
				f.Enum = enum
			}

		case u.Info()&(types.IsBoolean|types.IsNumeric) != 0:
			f.Kind = record.KindPrimitive
		}
	}

	return f
}

// holdsComplex reports whether a value of type t carries complex numbers below
// its top level, where the runtime encoder cannot reach them. A struct field
// itself is not entered: it is a record candidate and its fields are checked
// where the struct is declared.
func holdsComplex(t types.Type) bool {
	return complexBelow(t, 0, make(map[types.Type]bool))
}

func complexBelow(t types.Type, depth int, seen map[types.Type]bool) bool {
	t = unalias(t)
	if seen[t] {
		return false
	}

	seen[t] = true

	switch u := t.Underlying().(type) {
	case *types.Basic:
		return depth > 0 && u.Info()&types.IsComplex != 0
	case *types.Pointer:
		return complexBelow(u.Elem(), depth+1, seen)
	case *types.Slice:
		return complexBelow(u.Elem(), depth+1, seen)
	case *types.Array:
		return complexBelow(u.Elem(), depth+1, seen)
	case *types.Map:
		return complexBelow(u.Key(), depth+1, seen) || complexBelow(u.Elem(), depth+1, seen)
	case *types.Struct:
		if depth == 0 {
			return false
		}

		for i := 0; i < u.NumFields(); i++ {
			if complexBelow(u.Field(i).Type(), depth+1, seen) {
				return true
			}
		}
	}

	return false
}

// enumOf returns the constants declared with type named in its own package,
// ordered by value then name, or nil if there are none.
func enumOf(named *types.Named) *record.Enum {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	enum := &record.Enum{Type: typeRef(named)}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), named) {
			continue
		}

		v, exact := constant.Int64Val(constant.ToInt(c.Val()))
		if !exact {
			continue
		}

		enum.Values = append(enum.Values, record.EnumValue{
			Const: name,
			Label: record.EnumLabel(named.Obj().Name(), name),
			Value: v,
		})
	}

	if len(enum.Values) == 0 {
		return nil
	}

	sort.SliceStable(enum.Values, func(i, j int) bool {
		if enum.Values[i].Value != enum.Values[j].Value {
			return enum.Values[i].Value < enum.Values[j].Value
		}

		return enum.Values[i].Const < enum.Values[j].Const
	})

	return enum
}
