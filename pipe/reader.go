package pipe

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Reader decodes record data written by Writer. Like Writer, the first error
// sticks.
type Reader struct {
	dec *msgpack.Decoder
	err error
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(r)}
}

// Err returns the first error hit by the reader, if any. A tag mismatch with
// no predecessor is not an error of the reader: SavePipeRead returns false
// while Err stays nil.
func (r *Reader) Err() error {
	return r.err
}

// Tag reads a version tag.
func (r *Reader) Tag() (int32, bool) {
	if r.err != nil {
		return 0, false
	}

	tag, err := r.dec.DecodeInt32()
	if err != nil {
		r.err = fmt.Errorf("read tag: %w", err)
		return 0, false
	}

	return tag, true
}

// Value decodes the next value into v, which must be a pointer. A pointer to
// a complex number reads the pair written by Writer.Value.
func (r *Reader) Value(v any) bool {
	if r.err != nil {
		return false
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if k := rv.Elem().Kind(); k == reflect.Complex64 || k == reflect.Complex128 {
			if err := r.readComplex(rv.Elem()); err != nil {
				r.err = fmt.Errorf("read %T: %w", v, err)
				return false
			}

			return true
		}
	}

	if err := r.dec.Decode(v); err != nil {
		r.err = fmt.Errorf("read %T: %w", v, err)
		return false
	}

	return true
}

// FixedText reads a buffer written by Writer.FixedText and stores the text
// up to the first zero byte in dst.
func (r *Reader) FixedText(dst *string, size int) bool {
	if r.err != nil {
		return false
	}

	buf, err := r.dec.DecodeBytes()
	if err != nil {
		r.err = fmt.Errorf("read fixed text: %w", err)
		return false
	}

	if len(buf) != max(size, 0) {
		r.err = fmt.Errorf("read fixed text: got %d bytes, want %d: %w", len(buf), size, ErrFixedTextSize)
		return false
	}

	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}

	*dst = string(buf)

	return true
}

func (r *Reader) readComplex(dst reflect.Value) error {
	n, err := r.dec.DecodeArrayLen()
	if err != nil {
		return err
	}

	if n != 2 {
		return fmt.Errorf("complex number with %d parts", n)
	}

	re, err := r.dec.DecodeFloat64()
	if err != nil {
		return err
	}

	im, err := r.dec.DecodeFloat64()
	if err != nil {
		return err
	}

	dst.SetComplex(complex(re, im))

	return nil
}
