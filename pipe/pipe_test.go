package pipe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point mirrors what the generator emits for a record with one primitive
// field and one bounded text field.
type point struct {
	X    int32
	Name string
}

func (point) SavePipeTag() int32 { return 42 }

func (r *point) SavePipeWrite(w *Writer) bool {
	if !w.Tag(r.SavePipeTag()) {
		return false
	}
	if !w.Value(r.X) {
		return false
	}
	return w.FixedText(r.Name, 8)
}

func (r *point) SavePipeRead(rd *Reader, knownTag *int32) bool {
	var tag int32
	if knownTag != nil {
		tag = *knownTag
	} else if t, ok := rd.Tag(); ok {
		tag = t
	} else {
		return false
	}
	if tag != r.SavePipeTag() {
		return false
	}
	if !rd.Value(&r.X) {
		return false
	}
	return rd.FixedText(&r.Name, 8)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMarshalUnmarshal(t *testing.T) {
	in := point{X: -7, Name: "abc"}

	data, err := Marshal(&in)
	require.NoError(t, err)

	var out point
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshal_UnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.True(t, w.Tag(7))

	var out point
	err := Unmarshal(buf.Bytes(), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data, err := Marshal(&point{X: 1, Name: "x"})
	require.NoError(t, err)

	var out point
	err = Unmarshal(data[:len(data)-3], &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownVersion)
}

func TestWriter_FixedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		size int
		want string
	}{
		{name: "short", in: "ab", size: 8, want: "ab"},
		{name: "exact capacity", in: "abcdefg", size: 8, want: "abcdefg"},
		{name: "truncated", in: "abcdefghijk", size: 8, want: "abcdefg"},
		{name: "empty", in: "", size: 4, want: ""},
		{name: "single slot", in: "abc", size: 1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			require.True(t, w.FixedText(tt.in, tt.size))

			encoded := buf.Len()

			var got string
			r := NewReader(&buf)
			require.True(t, r.FixedText(&got, tt.size))
			assert.Equal(t, tt.want, got)
			assert.NoError(t, r.Err())

			// The encoded size depends only on the capacity.
			var other bytes.Buffer
			require.True(t, NewWriter(&other).FixedText("", tt.size))
			assert.Equal(t, other.Len(), encoded)
		})
	}
}

func TestReader_FixedTextSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.True(t, NewWriter(&buf).FixedText("abc", 4))

	var got string
	r := NewReader(&buf)
	assert.False(t, r.FixedText(&got, 8))
	assert.ErrorIs(t, r.Err(), ErrFixedTextSize)
}

func TestWriter_StickyError(t *testing.T) {
	w := NewWriter(failingWriter{})

	// msgpack buffers nothing, so the first write already fails.
	assert.False(t, w.Tag(1))
	require.Error(t, w.Err())
	assert.False(t, w.Value(3))
	assert.False(t, w.FixedText("a", 2))

	_, err := Marshal(&point{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWriteFailed)
}

func TestReader_StickyError(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))

	_, ok := r.Tag()
	assert.False(t, ok)
	require.Error(t, r.Err())

	var v int
	assert.False(t, r.Value(&v))
}

type phase complex64

func TestValue_Complex(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf)
	require.True(t, w.Value(complex128(1+2i)))
	require.True(t, w.Value(complex64(-0.5+4i)))
	require.True(t, w.Value(phase(3-1i)))
	require.NoError(t, w.Err())

	var (
		c128 complex128
		c64  complex64
		p    phase
	)

	r := NewReader(&buf)
	require.True(t, r.Value(&c128))
	require.True(t, r.Value(&c64))
	require.True(t, r.Value(&p))
	require.NoError(t, r.Err())

	assert.Equal(t, complex128(1+2i), c128)
	assert.Equal(t, complex64(-0.5+4i), c64)
	assert.Equal(t, phase(3-1i), p)
}

func TestValue_ComplexFromScalar(t *testing.T) {
	var buf bytes.Buffer
	require.True(t, NewWriter(&buf).Value(1.5))

	var c complex128
	r := NewReader(&buf)
	assert.False(t, r.Value(&c))
	assert.Error(t, r.Err())
}
