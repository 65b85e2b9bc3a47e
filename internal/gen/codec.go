package gen

import (
	"github.com/dave/jennifer/jen"

	"savepipe/internal/plan"
	"savepipe/internal/record"
)

// RuntimePath is the import path of the runtime the generated code targets.
const RuntimePath = "savepipe/pipe"

const (
	tagMethod     = "SavePipeTag"
	writeMethod   = "SavePipeWrite"
	readMethod    = "SavePipeRead"
	convertMethod = "SavePipeConvert"
)

// EmitWrite generates SavePipeWrite for the record of rp: the version tag,
// then every field in declaration order. It stops at the first failed step.
func EmitWrite(rp plan.RecordPlan) jen.Code {
	rec := rp.Record

	body := []jen.Code{
		failOn(jen.Id("w").Dot("Tag").Call(jen.Id("r").Dot(tagMethod).Call())),
	}

	for _, f := range rec.Fields {
		body = append(body, failOn(writeField(f)))
	}

	body = append(body, jen.Return(jen.True()))

	return jen.Commentf("%s writes the version tag of %s followed by its fields.", writeMethod, rec.ID.Name).
		Line().
		Func().Params(receiver(rec)).Id(writeMethod).
		Params(jen.Id("w").Op("*").Qual(RuntimePath, "Writer")).
		Bool().
		Block(body...)
}

func writeField(f record.Field) jen.Code {
	val := jen.Id("r").Dot(f.Name)

	switch f.Kind {
	case record.KindRecord:
		return val.Dot(writeMethod).Call(jen.Id("w"))
	case record.KindBoundedText:
		return jen.Id("w").Dot("FixedText").Call(val, jen.Lit(f.MaxLength))
	default:
		return jen.Id("w").Dot("Value").Call(val)
	}
}

// EmitRead generates SavePipeRead for the record of rp. A tag that is not the
// record's own is handed to the predecessor, whose result is converted; without
// a predecessor the read fails.
func EmitRead(rp plan.RecordPlan) jen.Code {
	rec := rp.Record

	body := []jen.Code{
		jen.Var().Id("tag").Int32(),
		jen.If(jen.Id("knownTag").Op("!=").Nil()).Block(
			jen.Id("tag").Op("=").Op("*").Id("knownTag"),
		).Else().If(
			jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("rd").Dot("Tag").Call(),
			jen.Id("ok"),
		).Block(
			jen.Id("tag").Op("=").Id("t"),
		).Else().Block(
			jen.Return(jen.False()),
		),
		jen.Line(),
	}

	mismatch := jen.Id("tag").Op("!=").Id("r").Dot(tagMethod).Call()

	if rp.Base != nil {
		body = append(body, jen.If(mismatch).Block(
			jen.Var().Id("prev").Add(typeOf(rp.Base.ID)),
			failOn(jen.Id("prev").Dot(readMethod).Call(jen.Id("rd"), jen.Op("&").Id("tag"))),
			jen.Line(),
			jen.Return(jen.Id("r").Dot(convertMethod).Call(jen.Op("&").Id("prev"))),
		))
	} else {
		body = append(body, jen.If(mismatch).Block(jen.Return(jen.False())))
	}

	body = append(body, jen.Line())

	for _, f := range rec.Fields {
		body = append(body, failOn(readField(f)))
	}

	body = append(body, jen.Return(jen.True()))

	comment := readMethod + " reads " + rec.ID.Name + ". knownTag is set when the caller already consumed the tag."
	if rp.Base != nil {
		comment = readMethod + " reads " + rec.ID.Name + ", migrating data written by " + rp.Base.ID.Name +
			" or an older version. knownTag is set when the caller already consumed the tag."
	}

	return jen.Comment(comment).
		Line().
		Func().Params(receiver(rec)).Id(readMethod).
		Params(
			jen.Id("rd").Op("*").Qual(RuntimePath, "Reader"),
			jen.Id("knownTag").Op("*").Int32(),
		).
		Bool().
		Block(body...)
}

func readField(f record.Field) jen.Code {
	val := jen.Id("r").Dot(f.Name)

	switch f.Kind {
	case record.KindRecord:
		return val.Dot(readMethod).Call(jen.Id("rd"), jen.Nil())
	case record.KindBoundedText:
		return jen.Id("rd").Dot("FixedText").Call(jen.Op("&").Add(val), jen.Lit(f.MaxLength))
	default:
		return jen.Id("rd").Dot("Value").Call(jen.Op("&").Add(val))
	}
}

// failOn wraps a boolean call into "if !call { return false }".
func failOn(call jen.Code) jen.Code {
	return jen.If(jen.Op("!").Add(call)).Block(jen.Return(jen.False()))
}

func receiver(rec *record.Record) jen.Code {
	return jen.Id("r").Op("*").Id(rec.ID.Name)
}

func typeOf(id record.ID) *jen.Statement {
	return jen.Qual(id.PkgPath, id.Name)
}

// typeRefCode names a field type in generated code. Only named and basic
// types are ever converted to, so Expr is not needed here.
func typeRefCode(t record.TypeRef) *jen.Statement {
	if t.PkgPath != "" {
		return jen.Qual(t.PkgPath, t.Name)
	}

	return jen.Id(t.Name)
}
