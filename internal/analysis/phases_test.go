package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithout_DoesNotMutateInput(t *testing.T) {
	names := []string{"a", "b", "c", "b"}
	out := Without(names, "b")

	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"a", "b", "c", "b"}, names)
}

func TestDefaultPhases(t *testing.T) {
	phases := DefaultPhases()
	require.Len(t, phases, 2)

	find, add := phases[0], phases[1]
	assert.Equal(t, "bst-find.dat", find.Baseline)
	assert.Equal(t, "-find", find.Suffix)
	assert.ElementsMatch(t, []string{
		"todolist-0.2", "todolist-0.35", "skiplist", "redblack",
		"treap", "scapegoat", "bst", "sortedarray",
	}, find.Structures)

	assert.Equal(t, "redblack-add.dat", add.Baseline)
	assert.Equal(t, "-add", add.Suffix)
	assert.ElementsMatch(t, []string{
		"todolist-0.2", "todolist-0.35", "skiplist", "redblack", "treap", "scapegoat",
	}, add.Structures)
	assert.NotContains(t, add.Structures, "bst")
	assert.NotContains(t, add.Structures, "sortedarray")
}

func TestDefaultPhases_IndependentSets(t *testing.T) {
	phases := DefaultPhases()
	phases[0].Structures[0] = "changed"
	assert.Equal(t, "todolist-0.2", phases[1].Structures[0])
	assert.Equal(t, "todolist-0.2", DefaultPhases()[0].Structures[0])

	names := phases[1].StructureNames()
	names[0] = "changed"
	assert.Equal(t, "todolist-0.2", phases[1].Structures[0])
}

func TestPhaseValidate(t *testing.T) {
	for _, p := range DefaultPhases() {
		assert.NoError(t, p.Validate())
	}
	assert.ErrorIs(t, Phase{Name: "x", Suffix: "-x", Structures: []string{"a"}}.Validate(), ErrInvalidPhase)
	assert.ErrorIs(t, Phase{Name: "x", Baseline: "b.dat", Structures: []string{"a"}}.Validate(), ErrInvalidPhase)
	assert.ErrorIs(t, Phase{Name: "x", Baseline: "b.dat", Suffix: "-x"}.Validate(), ErrInvalidPhase)
}
