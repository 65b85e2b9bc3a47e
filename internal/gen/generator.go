package gen

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"

	"savepipe/internal/common"
	"savepipe/internal/diagnostic"
	"savepipe/internal/plan"
	"savepipe/internal/record"
)

const header = "Code generated by savepipe. DO NOT EDIT."

// Options configures generation.
type Options struct {
	// Workers bounds the number of artifacts generated concurrently.
	Workers int
	// DeclSuffix and ImplSuffix replace ".go" on a unit's file name to form
	// the artifact names.
	DeclSuffix string
	ImplSuffix string
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Workers:    4,
		DeclSuffix: "_savepipe_decl.go",
		ImplSuffix: "_savepipe.go",
	}
}

// ArtifactPaths returns where the declaration and implementation artifacts
// of a unit are written.
func (o Options) ArtifactPaths(up *plan.UnitPlan) (decl, impl string) {
	base := strings.TrimSuffix(filepath.Base(up.Unit), ".go")

	return filepath.Join(up.Dir, base+o.DeclSuffix), filepath.Join(up.Dir, base+o.ImplSuffix)
}

// GeneratedFile is a rendered artifact.
type GeneratedFile struct {
	// Unit is the source unit the artifact belongs to.
	Unit string
	// Path is where the artifact goes.
	Path string
	// Content is the formatted Go source code.
	Content []byte
}

// Declaration renders the declaration artifact of up.
func Declaration(up *plan.UnitPlan, path string) (*GeneratedFile, error) {
	return render(up, path, declarationFile(up))
}

// Implementation renders the implementation artifact of up. Converter
// warnings are returned alongside.
func Implementation(p *plan.Plan, up *plan.UnitPlan, path string) (*GeneratedFile, diagnostic.Diagnostics, error) {
	f := newFile(up)

	var diags diagnostic.Diagnostics

	for _, dep := range unitDeps(up) {
		importDep(f, up, dep)
	}

	for i, rp := range up.Records {
		if i > 0 {
			f.Line()
		}

		f.Add(EmitWrite(rp))
		f.Line()
		f.Add(EmitRead(rp))

		code, convDiags := EmitConvert(p, rp)
		diags.Merge(convDiags)

		if code != nil {
			f.Line()
			f.Add(code)
		}
	}

	gf, err := render(up, path, f)

	return gf, diags, err
}

func newFile(up *plan.UnitPlan) *jen.File {
	f := jen.NewFilePathName(up.PkgPath, common.PkgName(up.PkgName, up.PkgPath))
	f.HeaderComment(header)
	f.ImportName(RuntimePath, "pipe")

	return f
}

func importDep(f *jen.File, up *plan.UnitPlan, dep *record.Record) {
	if dep.ID.PkgPath != up.PkgPath {
		f.ImportName(dep.ID.PkgPath, common.PkgName(dep.PkgName, dep.ID.PkgPath))
	}
}

// render formats f. When formatting fails the raw source is kept in a
// sidecar so the broken output can be inspected.
func render(up *plan.UnitPlan, path string, f *jen.File) (*GeneratedFile, error) {
	var buf bytes.Buffer

	if err := f.Render(&buf); err != nil {
		f.NoFormat = true

		var raw bytes.Buffer
		if rawErr := f.Render(&raw); rawErr == nil {
			if dbgErr := writeDebugUnformatted(path, raw.Bytes()); dbgErr == nil {
				return nil, fmt.Errorf("rendering %s: %w (unformatted written next to it)", filepath.Base(path), err)
			}
		}

		return nil, fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}

	return &GeneratedFile{Unit: up.Unit, Path: path, Content: buf.Bytes()}, nil
}
