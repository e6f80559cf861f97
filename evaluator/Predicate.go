package evaluator

import (
	"sort"
	"strings"

	"github.com/convlint/convlint/core"
)

// Predicate is one mechanical check applied per file.
type Predicate struct {
	ID      string
	Summary string
	// Applies reports whether the file is relevant to this check at all.
	// Files a predicate does not apply to produce no finding for it.
	Applies func(facts core.FileFacts) bool
	// Eval returns one FAIL finding per violation. Area and rule text are
	// filled in by Evaluate.
	Eval func(facts core.FileFacts) []core.Finding
}

var (
	registry  []Predicate
	predIndex = map[string]int{} // lower(predicate ID) -> index
)

func Register(p Predicate) {
	registry = append(registry, p)
	predIndex[strings.ToLower(strings.TrimSpace(p.ID))] = len(registry) - 1
}

// Get returns a predicate by ID if registered.
func Get(id string) (Predicate, bool) {
	idx, ok := predIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok || idx < 0 || idx >= len(registry) {
		return Predicate{}, false
	}
	return registry[idx], true
}

func List() []Predicate {
	out := make([]Predicate, 0, len(registry))
	out = append(out, registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
