package migration

import (
	"context"
	"fmt"
)

// Stage is one node of the copy graph. After names the stages whose output
// this one reads.
type Stage struct {
	Name  string
	After []string
	Run   func(ctx context.Context, st *runState) error
}

// orderStages returns stages in dependency order (Kahn). Whenever several
// stages are ready, the earliest declared one runs next, so a stage
// unblocked by the previous step can overtake a later-declared root.
func orderStages(stages []Stage) ([]Stage, error) {
	index := make(map[string]int, len(stages))
	for i, s := range stages {
		if _, dup := index[s.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, s.Name)
		}
		index[s.Name] = i
	}

	indegree := make([]int, len(stages))
	dependents := make([][]int, len(stages))
	for i, s := range stages {
		for _, dep := range s.After {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s requires %s", ErrUnknownStage, s.Name, dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	ordered := make([]Stage, 0, len(stages))
	emitted := make([]bool, len(stages))
	for len(ordered) < len(stages) {
		next := -1
		for i := range stages {
			if !emitted[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, s := range stages {
				if !emitted[i] {
					stuck = append(stuck, s.Name)
				}
			}
			return nil, fmt.Errorf("%w among %v", ErrCycle, stuck)
		}

		emitted[next] = true
		ordered = append(ordered, stages[next])
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}
	return ordered, nil
}
