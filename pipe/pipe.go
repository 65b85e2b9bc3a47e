package pipe

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrUnknownVersion is returned by Unmarshal when the stored version tag
	// belongs to no version in the record's chain.
	ErrUnknownVersion = errors.New("pipe: data matches no known record version")
	// ErrWriteFailed is returned by Marshal when a record refuses to write
	// without reporting an I/O error.
	ErrWriteFailed = errors.New("pipe: record write failed")
	// ErrFixedTextSize is recorded when a bounded text buffer on the wire does
	// not have the declared capacity.
	ErrFixedTextSize = errors.New("pipe: fixed text size mismatch")
)

// Record is implemented by every type savepipe generates code for.
type Record interface {
	// SavePipeTag returns the version tag written ahead of the record data.
	SavePipeTag() int32
	// SavePipeWrite writes the tag and then every field.
	SavePipeWrite(w *Writer) bool
	// SavePipeRead decodes the record, migrating from a predecessor version
	// when the tag does not match. knownTag is non-nil only when the call is
	// part of a successor's migration chain.
	SavePipeRead(r *Reader, knownTag *int32) bool
}

// Marshal encodes rec into a new byte slice.
func Marshal(rec Record) ([]byte, error) {
	var buf bytes.Buffer

	w := NewWriter(&buf)
	if !rec.SavePipeWrite(w) {
		if err := w.Err(); err != nil {
			return nil, fmt.Errorf("marshal %T: %w", rec, err)
		}

		return nil, fmt.Errorf("marshal %T: %w", rec, ErrWriteFailed)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data into rec, migrating older versions as needed.
func Unmarshal(data []byte, rec Record) error {
	r := NewReader(bytes.NewReader(data))
	if !rec.SavePipeRead(r, nil) {
		if err := r.Err(); err != nil {
			return fmt.Errorf("unmarshal %T: %w", rec, err)
		}

		return fmt.Errorf("unmarshal %T: %w", rec, ErrUnknownVersion)
	}

	return nil
}
