package analyze

import (
	"go/ast"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comments(lines ...string) *ast.CommentGroup {
	g := &ast.CommentGroup{}
	for _, l := range lines {
		g.List = append(g.List, &ast.Comment{Text: l})
	}

	return g
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name string
		doc  *ast.CommentGroup
		want map[string]string
	}{
		{"nil doc", nil, nil},
		{"plain comment", comments("// SaveV2 is the current format."), nil},
		{
			"marker only",
			comments("// SaveV0 is old.", "//", "//savepipe:record"),
			map[string]string{"record": ""},
		},
		{
			"base and extra keys",
			comments(`//savepipe:record base=SaveV1 owner="inventory"`),
			map[string]string{"record": "", "base": "SaveV1", "owner": "inventory"},
		},
		{
			"qualified base",
			comments("//savepipe:record base=example.com/legacy.SaveV0"),
			map[string]string{"record": "", "base": "example.com/legacy.SaveV0"},
		},
		{
			"directives merge",
			comments("//savepipe:record", "//savepipe:base=Old"),
			map[string]string{"record": "", "base": "Old"},
		},
		{"spaced prefix is not a directive", comments("// savepipe:record"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDirectives(tt.doc))
		})
	}
}

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     reflect.StructTag
		want    fieldTag
		wantErr bool
	}{
		{"no tag", ``, fieldTag{}, false},
		{"other keys only", `json:"name"`, fieldTag{}, false},
		{"skip", `savepipe:"-"`, fieldTag{skip: true}, false},
		{"maxlen", `json:"name" savepipe:"maxlen=16"`, fieldTag{maxLen: 16}, false},
		{"zero maxlen", `savepipe:"maxlen=0"`, fieldTag{}, true},
		{"negative maxlen", `savepipe:"maxlen=-4"`, fieldTag{}, true},
		{"not a number", `savepipe:"maxlen=big"`, fieldTag{}, true},
		{"unknown option", `savepipe:"compress"`, fieldTag{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFieldTag(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
