package platform

import "sort"

// SortTurns establishes the canonical turn order: start timestamp ascending,
// request turns before any other type at equal timestamps, remaining ties in
// arrival order. The stable sort preserves arrival order without needing an
// explicit index.
func SortTurns(turns []Turn) {
	sort.SliceStable(turns, func(i, j int) bool {
		if !turns[i].StartedAt.Equal(turns[j].StartedAt) {
			return turns[i].StartedAt.Before(turns[j].StartedAt)
		}
		return typePriority(turns[i].Type) < typePriority(turns[j].Type)
	})
}

func typePriority(turnType string) int {
	if turnType == TurnTypeRequest {
		return 0
	}
	return 1
}
