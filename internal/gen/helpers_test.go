package gen

import (
	"bytes"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"savepipe/internal/diagnostic"
	"savepipe/internal/plan"
	"savepipe/internal/record"
)

const (
	savePkg   = "example.com/save"
	legacyPkg = "example.com/legacy"
)

func basic(name string) record.TypeRef {
	return record.TypeRef{Name: name, Expr: name, Basic: name}
}

func named(pkgPath, name, underlying string) record.TypeRef {
	return record.TypeRef{PkgPath: pkgPath, Name: name, Expr: pkgPath + "." + name, Basic: underlying}
}

func primitive(name, typ string) record.Field {
	return record.Field{Name: name, Kind: record.KindPrimitive, Type: basic(typ), Exported: true}
}

func text(name string, maxLen int) record.Field {
	f := record.Field{Name: name, Kind: record.KindText, Type: basic("string"), Exported: true}
	if maxLen > 0 {
		f.Kind = record.KindBoundedText
		f.MaxLength = maxLen
	}

	return f
}

func nested(name, pkgPath, typ string) record.Field {
	return record.Field{
		Name:     name,
		Kind:     record.KindRecord,
		Type:     named(pkgPath, typ, ""),
		Exported: true,
		Record:   record.ID{PkgPath: pkgPath, Name: typ},
	}
}

func enumField(name, pkgPath, typ string, consts ...string) record.Field {
	ref := named(pkgPath, typ, "int32")
	enum := &record.Enum{Type: ref}

	for i, c := range consts {
		enum.Values = append(enum.Values, record.EnumValue{
			Const: c,
			Label: record.EnumLabel(typ, c),
			Value: int64(i),
		})
	}

	return record.Field{Name: name, Kind: record.KindEnum, Type: ref, Exported: true, Enum: enum}
}

func decl(pkgPath, name, unit string, line int, base string, fields ...record.Field) record.Declaration {
	meta := map[string]string{record.MarkerKey: ""}
	if base != "" {
		meta[record.BaseKey] = base
	}

	pkgName := "save"
	if pkgPath == legacyPkg {
		pkgName = "legacy"
	}

	return record.Declaration{
		Name:     name,
		PkgPath:  pkgPath,
		PkgName:  pkgName,
		Unit:     unit,
		Line:     line,
		Fields:   fields,
		Metadata: meta,
	}
}

// savePlan plans a two-version chain split over three files of one package.
func savePlan(t *testing.T) *plan.Plan {
	t.Helper()

	g := record.Collect([]record.Declaration{
		decl(savePkg, "Item", "/src/save/item.go", 3, "",
			primitive("ID", "int32"),
		),
		decl(savePkg, "SaveV0", "/src/save/old.go", 10, "",
			text("Name", 8),
			primitive("Count", "int32"),
			enumField("Flag", savePkg, "FlagV1", "FlagV1A", "FlagV1B", "FlagV1C"),
			nested("Item", savePkg, "Item"),
			record.Field{Name: "Blob", Kind: record.KindOpaque, Type: record.TypeRef{Expr: "[]byte"}, Exported: true},
		),
		decl(savePkg, "SaveV1", "/src/save/new.go", 10, "SaveV0",
			text("Name", 16),
			primitive("Count", "int64"),
			enumField("Flag", savePkg, "FlagV2", "FlagV2Zero", "FlagV2B", "FlagV2C", "FlagV2D"),
			nested("Item", savePkg, "Item"),
			text("Extra", 0),
			text("Blob", 0),
		),
	})

	p, diags := plan.Build(g)
	require.False(t, diags.HasErrors())

	return p
}

func recordPlan(t *testing.T, p *plan.Plan, name string) plan.RecordPlan {
	t.Helper()

	for _, up := range p.Units {
		for _, rp := range up.Records {
			if rp.Record.ID.Name == name {
				return rp
			}
		}
	}

	t.Fatalf("record %s not planned", name)

	return plan.RecordPlan{}
}

func renderCode(t *testing.T, pkgPath string, code jen.Code) string {
	t.Helper()

	f := jen.NewFilePathName(pkgPath, "save")
	f.Add(code)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))

	return buf.String()
}

func codes(diags diagnostic.Diagnostics) []string {
	var out []string
	for _, d := range diags.All() {
		out = append(out, d.Code)
	}

	return out
}
