package plan

import (
	"encoding/binary"

	"github.com/google/uuid"

	"savepipe/internal/record"
)

// tagNamespace scopes the name-based UUIDs version tags are cut from.
// Changing it changes every tag and makes all existing data unreadable.
var tagNamespace = uuid.MustParse("8c6f5e0a-3d1b-5c47-9e2a-61b4d7f03a95")

// Tag returns the version tag of rec. It depends on the record name only,
// not on its package, fields or position, so moving or editing a record keeps
// its tag. Two records with the same name share a tag; nothing detects that.
func Tag(rec *record.Record) int32 {
	return TagOf(rec.ID.Name)
}

// TagOf returns the version tag for a record name: the first four bytes of
// its UUIDv5, read big-endian.
func TagOf(name string) int32 {
	id := uuid.NewSHA1(tagNamespace, []byte(name))

	return int32(binary.BigEndian.Uint32(id[:4]))
}
