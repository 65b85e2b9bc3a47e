package pipe

import (
	"fmt"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Writer encodes record data. The first error sticks: once a write fails,
// every later call returns false and Err reports the cause.
type Writer struct {
	enc *msgpack.Encoder
	err error
}

// NewWriter returns a Writer encoding to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: msgpack.NewEncoder(w)}
}

// Err returns the first error hit by the writer, if any.
func (w *Writer) Err() error {
	return w.err
}

// Tag writes a version tag. Tags always take five bytes on the wire.
func (w *Writer) Tag(tag int32) bool {
	if w.err != nil {
		return false
	}

	if err := w.enc.EncodeInt32(tag); err != nil {
		w.err = fmt.Errorf("write tag: %w", err)
		return false
	}

	return true
}

// Value writes v with the generic msgpack encoder. Complex numbers, which
// msgpack has no type for, are written as an array of their real and
// imaginary parts.
func (w *Writer) Value(v any) bool {
	if w.err != nil {
		return false
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Complex64 || rv.Kind() == reflect.Complex128 {
		if err := w.writeComplex(rv); err != nil {
			w.err = fmt.Errorf("write %T: %w", v, err)
			return false
		}

		return true
	}

	if err := w.enc.Encode(v); err != nil {
		w.err = fmt.Errorf("write %T: %w", v, err)
		return false
	}

	return true
}

// FixedText writes s into a zero-filled buffer of size bytes. At most size
// bytes are copied and the last byte is always 0, so longer text is cut
// without notice and the encoded size never depends on len(s).
func (w *Writer) FixedText(s string, size int) bool {
	if w.err != nil {
		return false
	}

	buf := make([]byte, max(size, 0))
	if size > 0 {
		copy(buf, s[:min(size, len(s))])
		buf[size-1] = 0
	}

	if err := w.enc.EncodeBytes(buf); err != nil {
		w.err = fmt.Errorf("write fixed text: %w", err)
		return false
	}

	return true
}

func (w *Writer) writeComplex(rv reflect.Value) error {
	c := rv.Complex()

	if err := w.enc.EncodeArrayLen(2); err != nil {
		return err
	}

	if rv.Kind() == reflect.Complex64 {
		if err := w.enc.EncodeFloat32(float32(real(c))); err != nil {
			return err
		}

		return w.enc.EncodeFloat32(float32(imag(c)))
	}

	if err := w.enc.EncodeFloat64(real(c)); err != nil {
		return err
	}

	return w.enc.EncodeFloat64(imag(c))
}
