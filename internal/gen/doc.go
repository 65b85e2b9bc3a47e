// Package gen emits the versioned read/write code of planned records.
//
// Code is built with github.com/dave/jennifer and formatted on render. Each
// source unit produces two artifacts next to it:
//
//   - <base>_savepipe_decl.go: version tags and compile-time assertions for
//     the unit's records and the records of other units they depend on
//   - <base>_savepipe.go: SavePipeWrite, SavePipeRead and, for records with a
//     predecessor, SavePipeConvert
//
// Codegen patterns:
//   - Tag first, then fields in declaration order
//   - Bounded text as a fixed, zero-padded buffer
//   - Predecessor fallback on tag mismatch, recursing down the chain
//   - Name-matched field conversion with enum label remapping
package gen
