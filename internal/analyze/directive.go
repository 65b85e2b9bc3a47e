package analyze

import (
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"
)

const (
	directivePrefix = "//savepipe:"
	tagKey          = "savepipe"
)

// parseDirectives collects the savepipe directives of a doc comment into a
// metadata map. It returns nil when the comment carries none.
func parseDirectives(doc *ast.CommentGroup) map[string]string {
	if doc == nil {
		return nil
	}

	var meta map[string]string

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}

		if meta == nil {
			meta = make(map[string]string)
		}

		for _, tok := range strings.Fields(rest) {
			k, v, _ := strings.Cut(tok, "=")
			meta[k] = strings.Trim(v, `"`)
		}
	}

	return meta
}

// fieldTag is the parsed savepipe struct tag of a field.
type fieldTag struct {
	skip   bool
	maxLen int
}

// parseFieldTag reads the savepipe key of a struct tag: "-" to skip the
// field, or comma separated options such as "maxlen=16".
func parseFieldTag(tag reflect.StructTag) (fieldTag, error) {
	raw, ok := tag.Lookup(tagKey)
	if !ok || raw == "" {
		return fieldTag{}, nil
	}

	if raw == "-" {
		return fieldTag{skip: true}, nil
	}

	var ft fieldTag

	for _, opt := range strings.Split(raw, ",") {
		k, v, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch k {
		case "maxlen":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fieldTag{}, fmt.Errorf("maxlen must be a positive integer, got %q", v)
			}

			ft.maxLen = n
		default:
			return fieldTag{}, fmt.Errorf("unknown option %q", k)
		}
	}

	return ft, nil
}
