package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/empack-dev/empack/internal/state"
)

func indexOf(targets []state.BuildTarget, t state.BuildTarget) int {
	for i, x := range targets {
		if x == t {
			return i
		}
	}
	return -1
}

func TestOrder_MrpackBeforeClient(t *testing.T) {
	ordered := Order([]state.BuildTarget{state.TargetClient})
	assert.Contains(t, ordered, state.TargetMrpack)
	assert.Less(t, indexOf(ordered, state.TargetMrpack), indexOf(ordered, state.TargetClient))
}

func TestOrder_PullsInMrpackOnlyOnce(t *testing.T) {
	ordered := Order([]state.BuildTarget{state.TargetClient, state.TargetServer})
	count := 0
	for _, o := range ordered {
		if o == state.TargetMrpack {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, ordered, 3)
}

func TestOrder_StandaloneTargetsNeedNoDependency(t *testing.T) {
	ordered := Order([]state.BuildTarget{state.TargetClientFull})
	assert.Equal(t, []state.BuildTarget{state.TargetClientFull}, ordered)
}

func TestOrder_EmptyRequestIsEmpty(t *testing.T) {
	assert.Empty(t, Order(nil))
}
