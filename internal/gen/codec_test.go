package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepipe/internal/diagnostic"
	"savepipe/internal/plan"
	"savepipe/internal/record"
)

func TestEmitWrite(t *testing.T) {
	p := savePlan(t)
	out := renderCode(t, savePkg, EmitWrite(recordPlan(t, p, "SaveV0")))

	assert.Contains(t, out, "func (r *SaveV0) SavePipeWrite(w *pipe.Writer) bool {")
	assert.Contains(t, out, "if !w.Tag(r.SavePipeTag()) {")
	assert.Contains(t, out, "if !w.FixedText(r.Name, 8) {")
	assert.Contains(t, out, "if !w.Value(r.Count) {")
	assert.Contains(t, out, "if !w.Value(r.Flag) {")
	assert.Contains(t, out, "if !r.Item.SavePipeWrite(w) {")
	assert.Contains(t, out, "return true")

	// fields go out in declaration order, after the tag
	assert.Less(t, strings.Index(out, "w.Tag("), strings.Index(out, "r.Name"))
	assert.Less(t, strings.Index(out, "r.Name"), strings.Index(out, "r.Count"))
	assert.Less(t, strings.Index(out, "r.Count"), strings.Index(out, "r.Flag"))
	assert.Less(t, strings.Index(out, "r.Flag"), strings.Index(out, "r.Item"))
}

func TestEmitRead(t *testing.T) {
	p := savePlan(t)

	t.Run("with predecessor", func(t *testing.T) {
		out := renderCode(t, savePkg, EmitRead(recordPlan(t, p, "SaveV1")))

		assert.Contains(t, out, "func (r *SaveV1) SavePipeRead(rd *pipe.Reader, knownTag *int32) bool {")
		assert.Contains(t, out, "tag = *knownTag")
		assert.Contains(t, out, "} else if t, ok := rd.Tag(); ok {")
		assert.Contains(t, out, "if tag != r.SavePipeTag() {")
		assert.Contains(t, out, "var prev SaveV0")
		assert.Contains(t, out, "if !prev.SavePipeRead(rd, &tag) {")
		assert.Contains(t, out, "return r.SavePipeConvert(&prev)")
		assert.Contains(t, out, "if !rd.FixedText(&r.Name, 16) {")
		assert.Contains(t, out, "if !rd.Value(&r.Count) {")
		assert.Contains(t, out, "if !r.Item.SavePipeRead(rd, nil) {")
		assert.Contains(t, out, "if !rd.Value(&r.Extra) {")
	})

	t.Run("without predecessor", func(t *testing.T) {
		out := renderCode(t, savePkg, EmitRead(recordPlan(t, p, "SaveV0")))

		assert.Contains(t, out, "if tag != r.SavePipeTag() {\n\t\treturn false\n\t}")
		assert.NotContains(t, out, "prev")
		assert.NotContains(t, out, "SavePipeConvert")
	})

	t.Run("unresolved predecessor", func(t *testing.T) {
		g := record.Collect([]record.Declaration{
			decl(savePkg, "Orphan", "/src/save/orphan.go", 1, "Missing", primitive("ID", "int32")),
		})
		p, diags := plan.Build(g)
		require.Len(t, diags.ByCode(diagnostic.CodeUnresolvedBase), 1)

		rp := recordPlan(t, p, "Orphan")
		out := renderCode(t, savePkg, EmitRead(rp))

		assert.Contains(t, out, "if tag != r.SavePipeTag() {\n\t\treturn false\n\t}")
		assert.Contains(t, out, "if !rd.Value(&r.ID) {")
		assert.NotContains(t, out, "prev")
		assert.NotContains(t, out, "Missing")
		assert.NotContains(t, out, "SavePipeConvert")

		code, convDiags := EmitConvert(p, rp)
		assert.Nil(t, code)
		assert.Zero(t, convDiags.Len())
	})
}

func TestEmitConvert(t *testing.T) {
	p := savePlan(t)

	code, diags := EmitConvert(p, recordPlan(t, p, "SaveV1"))
	require.NotNil(t, code)

	out := renderCode(t, savePkg, code)

	assert.Contains(t, out, "func (r *SaveV1) SavePipeConvert(prev *SaveV0) bool {")
	assert.Contains(t, out, "r.Name = prev.Name")
	assert.Contains(t, out, "r.Count = int64(prev.Count)")
	assert.Contains(t, out, "r.Item = prev.Item")
	assert.NotContains(t, out, "r.Extra")
	assert.NotContains(t, out, "r.Blob")

	// enum values are matched by label
	assert.Contains(t, out, "switch prev.Flag {")
	assert.Contains(t, out, "case FlagV1B:\n\t\tr.Flag = FlagV2B")
	assert.Contains(t, out, "case FlagV1C:\n\t\tr.Flag = FlagV2C")
	assert.NotContains(t, out, "FlagV1A")
	assert.NotContains(t, out, "FlagV2D")

	assert.Equal(t, []string{diagnostic.CodeFieldTypeMismatch}, codes(diags))
	assert.Equal(t, "Blob", diags.Warnings[0].Field)
}

func TestEmitConvert_NoPredecessor(t *testing.T) {
	p := savePlan(t)

	code, diags := EmitConvert(p, recordPlan(t, p, "SaveV0"))
	assert.Nil(t, code)
	assert.Zero(t, diags.Len())
}

func TestEmitConvert_NestedChain(t *testing.T) {
	g := record.Collect([]record.Declaration{
		decl(savePkg, "Item", "/src/save/a.go", 1, "", primitive("ID", "int32")),
		decl(savePkg, "ItemV2", "/src/save/a.go", 5, "Item", primitive("ID", "int64")),
		decl(savePkg, "Other", "/src/save/a.go", 9, "", primitive("ID", "int32")),
		decl(savePkg, "Old", "/src/save/b.go", 1, "",
			nested("Item", savePkg, "Item"),
			nested("Pair", savePkg, "Item"),
		),
		decl(savePkg, "New", "/src/save/b.go", 9, "Old",
			nested("Item", savePkg, "ItemV2"),
			nested("Pair", savePkg, "Other"),
		),
	})
	p, _ := plan.Build(g)

	code, diags := EmitConvert(p, recordPlan(t, p, "New"))
	out := renderCode(t, savePkg, code)

	assert.Contains(t, out, "if !r.Item.SavePipeConvert(&prev.Item) {\n\t\treturn false\n\t}")
	assert.NotContains(t, out, "r.Pair")
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeFieldTypeMismatch, diags.Warnings[0].Code)
	assert.Equal(t, "Pair", diags.Warnings[0].Field)
}

func TestEmitConvert_CrossPackage(t *testing.T) {
	legacyFlag := enumField("Flag", legacyPkg, "Mode", "ModeOn", "modeOff")
	legacyCount := primitive("count", "int32")
	legacyCount.Exported = false

	g := record.Collect([]record.Declaration{
		decl(legacyPkg, "Old", "/src/legacy/old.go", 1, "",
			legacyCount,
			legacyFlag,
			primitive("Level", "uint8"),
		),
		decl(savePkg, "New", "/src/save/new.go", 1, legacyPkg+".Old",
			primitive("count", "int32"),
			enumField("Flag", savePkg, "Mode", "ModeOn", "modeOff"),
			primitive("Level", "int"),
		),
	})
	p, _ := plan.Build(g)

	code, diags := EmitConvert(p, recordPlan(t, p, "New"))
	out := renderCode(t, savePkg, code)

	assert.Contains(t, out, "func (r *New) SavePipeConvert(prev *legacy.Old) bool {")
	assert.Contains(t, out, "case legacy.ModeOn:\n\t\tr.Flag = ModeOn")
	assert.NotContains(t, out, "modeOff")
	assert.NotContains(t, out, "r.count")
	assert.Contains(t, out, "r.Level = int(prev.Level)")

	assert.ElementsMatch(t,
		[]string{diagnostic.CodeFieldUnexported, diagnostic.CodeEnumUnexported},
		codes(diags))
}

func TestEmitConvert_Complex(t *testing.T) {
	g := record.Collect([]record.Declaration{
		decl(savePkg, "Old", "/src/save/a.go", 1, "",
			primitive("Amp", "complex64"),
			primitive("Gain", "complex128"),
		),
		decl(savePkg, "New", "/src/save/a.go", 9, "Old",
			primitive("Amp", "complex128"),
			primitive("Gain", "float64"),
		),
	})
	p, _ := plan.Build(g)

	code, diags := EmitConvert(p, recordPlan(t, p, "New"))
	out := renderCode(t, savePkg, code)

	assert.Contains(t, out, "r.Amp = complex128(prev.Amp)")
	assert.NotContains(t, out, "r.Gain")
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "Gain", diags.Warnings[0].Field)
}
