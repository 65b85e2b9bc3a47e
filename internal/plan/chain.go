package plan

import (
	"fmt"
	"strings"

	"savepipe/internal/diagnostic"
	"savepipe/internal/match"
	"savepipe/internal/record"
)

const maxSuggestions = 3

// BaseID returns the ID the base name of rec refers to. A name with a dot is
// read as "import/path.Name"; a bare name lives in the record's package.
func BaseID(rec *record.Record) (record.ID, bool) {
	name := rec.BaseName()
	if name == "" {
		return record.ID{}, false
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		return record.ID{PkgPath: name[:i], Name: name[i+1:]}, true
	}

	return record.ID{PkgPath: rec.ID.PkgPath, Name: name}, true
}

// ResolveBase looks up the declared predecessor of rec. It returns nil and no
// diagnostic when rec declares none, and nil plus an error diagnostic when the
// name is unknown: the caller goes on as if rec had no predecessor.
func ResolveBase(rec *record.Record, g *record.Graph) (*record.Record, *diagnostic.Diagnostic) {
	id, ok := BaseID(rec)
	if !ok {
		return nil, nil
	}

	if base := g.Get(id); base != nil {
		return base, nil
	}

	var names []string

	for _, other := range g.All() {
		if other.ID.PkgPath == id.PkgPath && other.ID != rec.ID {
			names = append(names, other.ID.Name)
		}
	}

	return nil, &diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     diagnostic.CodeUnresolvedBase,
		Message: fmt.Sprintf("base %s not found; %s is generated without migration support",
			id, rec.ID.Name),
		Record:      rec.ID.String(),
		Suggestions: match.Suggest(id.Name, names, maxSuggestions, match.DefaultMinSimilarity),
	}
}

// DetectCycles follows base edges from every record and returns each loop
// once, starting at the member met first in graph order.
func DetectCycles(g *record.Graph) [][]record.ID {
	const (
		unvisited = iota
		onPath
		done
	)

	state := make(map[record.ID]int, len(g.Records))

	var cycles [][]record.ID

	for _, start := range g.Order {
		var path []record.ID

		pos := make(map[record.ID]int)

		for id := start; ; {
			if state[id] == done {
				break
			}

			if state[id] == onPath {
				cycles = append(cycles, append([]record.ID(nil), path[pos[id]:]...))
				break
			}

			state[id] = onPath
			pos[id] = len(path)
			path = append(path, id)

			next, ok := BaseID(g.Get(id))
			if !ok || g.Get(next) == nil {
				break
			}

			id = next
		}

		for _, id := range path {
			state[id] = done
		}
	}

	return cycles
}
