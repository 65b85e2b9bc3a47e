// Package record holds the in-memory graph of annotated record types.
//
// A declaration provider reports every struct declaration it finds together
// with its directive metadata. Collect keeps the ones carrying the record
// marker, freezes them into Records and derives the two kinds of edges the
// rest of the pipeline walks:
//   - base edges: a record's declared predecessor (by name, resolved later)
//   - reference edges: fields whose type is itself an annotated record
//
// The graph is built once, single-threaded, and only read afterwards.
package record
