package build

import "github.com/empack-dev/empack/internal/state"

// Order topologically sorts requested targets so each target's
// dependencies (per state.BuildTarget.Requires) appear before it,
// de-duplicating and pulling in any dependency not explicitly requested.
// The graph here is fixed and small (five nodes, one real edge class),
// so this is a direct Kahn's-algorithm walk rather than a general graph
// structure.
func Order(requested []state.BuildTarget) []state.BuildTarget {
	needed := map[state.BuildTarget]bool{}
	var collect func(t state.BuildTarget)
	collect = func(t state.BuildTarget) {
		if needed[t] {
			return
		}
		needed[t] = true
		for _, dep := range t.Requires() {
			collect(dep)
		}
	}
	for _, t := range requested {
		collect(t)
	}

	inDegree := map[state.BuildTarget]int{}
	for t := range needed {
		inDegree[t] = len(t.Requires())
	}

	var queue []state.BuildTarget
	for _, t := range allTargetsInDeclarationOrder() {
		if needed[t] && inDegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	var sorted []state.BuildTarget
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		sorted = append(sorted, t)

		for other := range needed {
			for _, dep := range other.Requires() {
				if dep == t {
					inDegree[other]--
					if inDegree[other] == 0 {
						queue = append(queue, other)
					}
				}
			}
		}
	}

	return sorted
}

func allTargetsInDeclarationOrder() []state.BuildTarget {
	return []state.BuildTarget{
		state.TargetMrpack,
		state.TargetClient,
		state.TargetServer,
		state.TargetClientFull,
		state.TargetServerFull,
	}
}
