package analysis

import (
	"fmt"
	"slices"
)

// FindStructures is the full set of benchmarked structures.
func FindStructures() []string {
	return []string{
		"todolist-0.2", "todolist-0.35", "skiplist", "redblack",
		"treap", "scapegoat", "bst", "sortedarray",
	}
}

// Without returns a new slice holding names minus every excluded entry.
// names is never modified.
func Without(names []string, excluded ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(excluded, n) {
			out = append(out, n)
		}
	}
	return out
}

// DefaultPhases builds the find phase, normalized against bst, and the add
// phase, normalized against redblack. The static structures bst and
// sortedarray have no add timings.
func DefaultPhases() []Phase {
	find := FindStructures()
	return []Phase{
		{
			Name:       "find",
			Baseline:   "bst-find.dat",
			Suffix:     "-find",
			Structures: find,
		},
		{
			Name:       "add",
			Baseline:   "redblack-add.dat",
			Suffix:     "-add",
			Structures: Without(FindStructures(), "bst", "sortedarray"),
		},
	}
}

// Validate checks that the phase names a baseline, a suffix and at least one structure.
func (p Phase) Validate() error {
	switch {
	case p.Baseline == "":
		return fmt.Errorf("%w %q: no baseline file", ErrInvalidPhase, p.Name)
	case p.Suffix == "":
		return fmt.Errorf("%w %q: no file suffix", ErrInvalidPhase, p.Name)
	case len(p.Structures) == 0:
		return fmt.Errorf("%w %q: no structures", ErrInvalidPhase, p.Name)
	}
	return nil
}
