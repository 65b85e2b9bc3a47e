package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savepipe/internal/diagnostic"
	"savepipe/internal/record"
)

const signalSrc = `package save

type Phase complex64

type Wrap struct{ C complex128 }

//savepipe:record
type Signal struct {
	Amp   complex128
	Ph    Phase
	Trace []complex64
	Peaks map[string]complex128
	Wraps []Wrap
	Plain []float64
}
`

func TestClassify_Complex(t *testing.T) {
	pkg := checkSource(t, "/src/save/signal.go", signalSrc)

	var (
		l     Loader
		diags diagnostic.Diagnostics
	)

	decls := l.processPackage(pkg, &diags)
	require.Len(t, decls, 2)

	fields := make(map[string]record.Field)
	for _, f := range decls[1].Fields {
		fields[f.Name] = f
	}

	tests := []struct {
		field string
		kind  record.Kind
		basic string
	}{
		{"Amp", record.KindPrimitive, "complex128"},
		{"Ph", record.KindPrimitive, "complex64"},
		{"Trace", record.KindOpaque, ""},
		{"Peaks", record.KindOpaque, ""},
		{"Wraps", record.KindOpaque, ""},
		{"Plain", record.KindOpaque, ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, ok := fields[tt.field]
			require.True(t, ok)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.basic, f.Type.Basic)
		})
	}

	assert.True(t, fields["Ph"].Type.Complex())
	assert.False(t, fields["Ph"].Type.Numeric())

	var flagged []string
	for _, w := range diags.ByCode(diagnostic.CodeUnsupportedType) {
		assert.Equal(t, "example.com/save.Signal", w.Record)
		flagged = append(flagged, w.Field)
	}

	assert.Equal(t, []string{"Peaks", "Trace", "Wraps"}, flagged)
	assert.Equal(t, 3, diags.Len())
}
