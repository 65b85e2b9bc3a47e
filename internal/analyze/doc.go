// Package analyze is the declaration provider: it loads Go packages and
// reports their struct declarations as record.Declaration values.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. A struct
// becomes a pipeline record through a directive in its doc comment:
//
//	//savepipe:record base=SaveV1
//	type SaveV2 struct {
//		Name  string `savepipe:"maxlen=32"`
//		Cache []byte `savepipe:"-"`
//		...
//	}
//
// Every key=value pair after the verb lands in the declaration metadata;
// the verb itself is the record marker.
package analyze
