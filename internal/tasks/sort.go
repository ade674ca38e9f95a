package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amirbrooks/todoist-action-cli/internal/query"
)

const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
)

// Sort reorders the collection by the listed keys in priority order, as one
// stable multi-key sort. Ascending is the default; descending flips the
// entire sort, not individual keys. Tasks missing a key order as the lowest
// sentinel rather than raising, and equal tasks keep their pre-sort order.
//
// Note the priority quirk: sorting by "priority_str" ascending surfaces p1
// (most urgent, numeric 4) first, while numeric "priority" ascending puts it
// last. Both orderings are intentional; do not unify them.
func Sort(col Collection, keyList, order string) (Collection, error) {
	if order == "" {
		order = OrderAscending
	}
	if order != OrderAscending && order != OrderDescending {
		return Collection{}, fmt.Errorf("sort order %q not recognized (use ascending or descending)", order)
	}
	keys := splitKeys(keyList)
	if len(keys) == 0 {
		return Collection{}, fmt.Errorf("empty sort key list")
	}

	// Resolve every key once up front; the comparator then only compares.
	resolved := make([][]query.Value, len(col.Tasks))
	for i, t := range col.Tasks {
		vs := make([]query.Value, len(keys))
		for j, key := range keys {
			vs[j] = resolveSortKey(col, t, key)
		}
		resolved[i] = vs
	}

	idx := make([]int, len(col.Tasks))
	for i := range idx {
		idx[i] = i
	}
	descending := order == OrderDescending
	sort.SliceStable(idx, func(a, b int) bool {
		for j := range keys {
			c := query.SortCompare(resolved[idx[a]][j], resolved[idx[b]][j])
			if c == 0 {
				continue
			}
			if descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	out := make([]Task, len(col.Tasks))
	for i, j := range idx {
		out[i] = col.Tasks[j]
	}
	return col.WithTasks(out), nil
}

func splitKeys(keyList string) []string {
	var keys []string
	for _, k := range strings.Split(keyList, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
