package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"savepipe/internal/diagnostic"
	"savepipe/internal/plan"
	"savepipe/internal/record"
)

// EmitConvert generates SavePipeConvert for a record with a predecessor. Fields
// are matched by name; fields the predecessor lacks keep their current value.
// It returns nil code when the record has no predecessor. Fields that cannot
// be carried over are reported as warnings.
func EmitConvert(p *plan.Plan, rp plan.RecordPlan) (jen.Code, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	rec, base := rp.Record, rp.Base
	if base == nil {
		return nil, diags
	}

	samePkg := rec.ID.PkgPath == base.ID.PkgPath

	var body []jen.Code

	for i := range rec.Fields {
		f := &rec.Fields[i]

		src, ok := base.Field(f.Name)
		if !ok {
			continue
		}

		if !samePkg && !src.Exported {
			diags.AddWarning(diagnostic.CodeFieldUnexported,
				fmt.Sprintf("%s.%s is unexported and cannot be read from package %s",
					base.ID.Name, src.Name, rec.PkgName),
				rec.ID.String(), f.Name)

			continue
		}

		stmt := convertField(p, rec, f, src, &diags)
		if stmt != nil {
			body = append(body, stmt)
		}
	}

	body = append(body, jen.Return(jen.True()))

	return jen.Commentf("%s fills %s from a decoded %s.", convertMethod, rec.ID.Name, base.ID.Name).
		Line().
		Func().Params(receiver(rec)).Id(convertMethod).
		Params(jen.Id("prev").Op("*").Add(typeOf(base.ID))).
		Bool().
		Block(body...), diags
}

func convertField(
	p *plan.Plan,
	rec *record.Record,
	f, src *record.Field,
	diags *diagnostic.Diagnostics,
) jen.Code {
	dst := jen.Id("r").Dot(f.Name)
	from := jen.Id("prev").Dot(src.Name)

	switch {
	case f.Type.Identical(src.Type):
		return dst.Op("=").Add(from)

	case f.Kind == record.KindEnum && src.Kind == record.KindEnum:
		return remapEnum(rec, f, src, diags)

	case f.Kind == record.KindRecord && src.Kind == record.KindRecord:
		if base := p.Base(f.Record); base != nil && base.ID == src.Record {
			return failOn(dst.Dot(convertMethod).Call(jen.Op("&").Add(from)))
		}

	case convertible(f.Type, src.Type):
		return dst.Op("=").Add(typeRefCode(f.Type)).Call(from)
	}

	diags.AddWarning(diagnostic.CodeFieldTypeMismatch,
		fmt.Sprintf("cannot convert %s to %s; field keeps its default", src.Type.Expr, f.Type.Expr),
		rec.ID.String(), f.Name)

	return nil
}

// convertible reports whether a value of type from converts to type to
// without loss of meaning: numeric to numeric, complex to complex, string to
// string, bool to bool.
func convertible(to, from record.TypeRef) bool {
	switch {
	case to.Numeric() && from.Numeric():
		return true
	case to.Complex() && from.Complex():
		return true
	case to.Basic == "string" && from.Basic == "string":
		return true
	case to.Basic == "bool" && from.Basic == "bool":
		return true
	default:
		return false
	}
}

// remapEnum switches over the old value and assigns the new constant that has
// the same label. Old values without a counterpart get no case.
func remapEnum(rec *record.Record, f, src *record.Field, diags *diagnostic.Diagnostics) jen.Code {
	var cases []jen.Code

	seen := make(map[int64]bool)

	for _, old := range src.Enum.Values {
		if seen[old.Value] {
			continue
		}

		nv, ok := f.Enum.Lookup(old.Label)
		if !ok {
			continue
		}

		seen[old.Value] = true

		if !visible(rec, src.Enum.Type.PkgPath, old) || !visible(rec, f.Enum.Type.PkgPath, nv) {
			diags.AddWarning(diagnostic.CodeEnumUnexported,
				fmt.Sprintf("label %s cannot be remapped: constant not exported", old.Label),
				rec.ID.String(), f.Name)

			continue
		}

		cases = append(cases, jen.Case(jen.Qual(src.Enum.Type.PkgPath, old.Const)).Block(
			jen.Id("r").Dot(f.Name).Op("=").Qual(f.Enum.Type.PkgPath, nv.Const),
		))
	}

	if len(cases) == 0 {
		return nil
	}

	return jen.Switch(jen.Id("prev").Dot(src.Name)).Block(cases...)
}

func visible(rec *record.Record, pkgPath string, v record.EnumValue) bool {
	return pkgPath == rec.ID.PkgPath || v.Exported()
}
