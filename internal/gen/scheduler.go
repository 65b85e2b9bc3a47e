package gen

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"savepipe/internal/diagnostic"
	"savepipe/internal/plan"
)

// Artifact kinds.
const (
	KindDeclaration    = "declaration"
	KindImplementation = "implementation"
)

// Artifact is the outcome of one generation task.
type Artifact struct {
	Unit    string
	Kind    string
	Path    string
	Changed bool
	Err     error
}

// Result collects the outcome of GenerateAll.
type Result struct {
	// Artifacts holds one entry per task, in unit order with the declaration
	// before the implementation.
	Artifacts []Artifact
	// Diagnostics merges the diagnostics of every task.
	Diagnostics diagnostic.Diagnostics
}

// Changed returns the number of artifacts whose content was committed.
func (r *Result) Changed() int {
	n := 0

	for _, a := range r.Artifacts {
		if a.Changed {
			n++
		}
	}

	return n
}

// FailedUnits returns the units with at least one failed artifact, in order.
func (r *Result) FailedUnits() []string {
	var units []string

	for _, a := range r.Artifacts {
		if a.Err == nil {
			continue
		}

		if len(units) == 0 || units[len(units)-1] != a.Unit {
			units = append(units, a.Unit)
		}
	}

	return units
}

type task struct {
	unit *plan.UnitPlan
	kind string
	path string
}

// GenerateAll renders and commits the two artifacts of every unit of p on a
// bounded pool. A failing task does not stop the others: every error is
// kept and the joined result is returned along with the full Result. ctx is
// only checked before a task starts.
func GenerateAll(ctx context.Context, p *plan.Plan, c Committer, opts Options) (*Result, error) {
	tasks := make([]task, 0, 2*len(p.Units))

	for i := range p.Units {
		up := &p.Units[i]
		decl, impl := opts.ArtifactPaths(up)
		tasks = append(tasks,
			task{unit: up, kind: KindDeclaration, path: decl},
			task{unit: up, kind: KindImplementation, path: impl},
		)
	}

	res := &Result{Artifacts: make([]Artifact, len(tasks))}
	diags := make([]diagnostic.Diagnostics, len(tasks))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)

	for i, t := range tasks {
		i, t := i, t
		eg.Go(func() error {
			a := Artifact{Unit: t.unit.Unit, Kind: t.kind, Path: t.path}

			if err := ctx.Err(); err != nil {
				a.Err = &UnitError{Unit: t.unit.Unit, Artifact: t.kind, Cause: err}
			} else {
				a.Changed, diags[i], a.Err = runTask(p, t, c)
			}

			res.Artifacts[i] = a

			return nil
		})
	}

	_ = eg.Wait()

	errs := make([]error, 0, len(tasks))
	for i := range tasks {
		res.Diagnostics.Merge(diags[i])
		errs = append(errs, res.Artifacts[i].Err)
	}

	return res, errors.Join(errs...)
}

func runTask(p *plan.Plan, t task, c Committer) (bool, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	fail := func(err error) (bool, diagnostic.Diagnostics, error) {
		return false, diags, &UnitError{Unit: t.unit.Unit, Artifact: t.kind, Cause: err}
	}

	if t.unit.Err != nil {
		return fail(t.unit.Err)
	}

	var (
		gf  *GeneratedFile
		err error
	)

	switch t.kind {
	case KindDeclaration:
		gf, err = Declaration(t.unit, t.path)
	default:
		gf, diags, err = Implementation(p, t.unit, t.path)
	}

	if err != nil {
		return fail(err)
	}

	changed, err := c.Commit(gf.Path, gf.Content)
	if err != nil {
		return fail(err)
	}

	return changed, diags, nil
}
