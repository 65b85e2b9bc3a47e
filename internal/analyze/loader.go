package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"savepipe/internal/common"
	"savepipe/internal/diagnostic"
	"savepipe/internal/record"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages and reports the struct declarations they contain.
type Loader struct {
	// Dir is the working directory for package resolution. Empty means the
	// process working directory.
	Dir string
	// BuildTags are passed to the go tool as -tags.
	BuildTags []string
	// SkipSuffixes lists file name suffixes whose declarations are ignored,
	// typically the generated artifacts themselves.
	SkipSuffixes []string

	dirs []string
}

// Dirs returns the source directories of the packages loaded by the last
// call to Load.
func (l *Loader) Dirs() []string {
	return l.dirs
}

// Load loads the packages matching patterns and returns their struct
// declarations in file then line order. Packages that fail to type-check are
// reported as warnings as long as type information is still available.
func (l *Loader) Load(patterns ...string) ([]record.Declaration, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.Dir,
	}

	if len(l.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, diags, fmt.Errorf("failed to load packages: %w", err)
	}

	var decls []record.Declaration

	l.dirs = nil

	for _, pkg := range pkgs {
		if file, ok := common.First(pkg.GoFiles); ok {
			l.dirs = append(l.dirs, filepath.Dir(file))
		}

		for _, e := range pkg.Errors {
			diags.AddWarning(diagnostic.CodePackageError, e.Error(), pkg.PkgPath, "")
		}

		if pkg.Types == nil || pkg.TypesInfo == nil {
			return nil, diags, fmt.Errorf("package %s has no type information", pkg.PkgPath)
		}

		decls = append(decls, l.processPackage(pkg, &diags)...)
	}

	return decls, diags, nil
}

// processPackage extracts the struct declarations of a loaded package.
func (l *Loader) processPackage(pkg *packages.Package, diags *diagnostic.Diagnostics) []record.Declaration {
	var decls []record.Declaration

	for _, file := range pkg.Syntax {
		filename := pkg.Fset.Position(file.Pos()).Filename
		if l.skip(filename) {
			continue
		}

		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.TypeParams != nil {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				decl, ok := l.declaration(pkg, ts, doc, filename, diags)
				if ok {
					decls = append(decls, decl)
				}
			}
		}
	}

	return decls
}

// declaration builds the declaration of a single type spec, if it is a struct.
func (l *Loader) declaration(
	pkg *packages.Package,
	ts *ast.TypeSpec,
	doc *ast.CommentGroup,
	filename string,
	diags *diagnostic.Diagnostics,
) (record.Declaration, bool) {
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok || obj.IsAlias() {
		return record.Declaration{}, false
	}

	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return record.Declaration{}, false
	}

	decl := record.Declaration{
		Name:     obj.Name(),
		PkgPath:  pkg.PkgPath,
		PkgName:  pkg.Name,
		Unit:     filename,
		Line:     pkg.Fset.Position(ts.Pos()).Line,
		Metadata: parseDirectives(doc),
	}

	id := record.ID{PkgPath: decl.PkgPath, Name: decl.Name}.String()

	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		if v.Name() == "_" {
			continue
		}

		tag, err := parseFieldTag(reflect.StructTag(st.Tag(i)))
		if err != nil {
			diags.AddWarning(diagnostic.CodeBadTag, err.Error(), id, v.Name())
		}

		if tag.skip {
			continue
		}

		field := classify(v.Name(), v.Type(), tag)
		if tag.maxLen > 0 && field.Kind != record.KindBoundedText {
			diags.AddWarning(diagnostic.CodeBadTag, "maxlen applies to string fields only", id, v.Name())
		}

		if field.Kind == record.KindOpaque && holdsComplex(v.Type()) {
			diags.AddWarning(diagnostic.CodeUnsupportedType,
				fmt.Sprintf("%s holds complex numbers, which can only be encoded as a field of their own",
					field.Type.Expr),
				id, v.Name())
		}

		decl.Fields = append(decl.Fields, field)
	}

	return decl, true
}

func (l *Loader) skip(filename string) bool {
	for _, suffix := range l.SkipSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}

	return false
}
