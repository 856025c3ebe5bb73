package board

import (
	"cmp"
	"slices"
)

// SortByPriority sorts tasks ascending by priority. Ties keep their order.
func SortByPriority(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		return cmp.Compare(a.priority, b.priority)
	})
}
