package statusutil

import "todolists/internal/model"

// IsListComplete reports whether l has at least one todo and every todo is completed.
func IsListComplete(l model.List) bool {
	if len(l.Todos) == 0 {
		return false
	}
	for _, t := range l.Todos {
		if !t.Completed {
			return false
		}
	}
	return true
}

func IncompleteCount(l model.List) int {
	n := 0
	for _, t := range l.Todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

func IsTodoComplete(t model.Todo) bool { return t.Completed }

// PartitionStable splits items into those matching pred and the rest.
// Both halves keep the original relative order; items is not modified.
func PartitionStable[T any](items []T, pred func(T) bool) (matching, rest []T) {
	matching = make([]T, 0, len(items))
	rest = make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			matching = append(matching, it)
		} else {
			rest = append(rest, it)
		}
	}
	return matching, rest
}

// Indexed pairs a value with its position in the stored sequence.
type Indexed[T any] struct {
	Index int
	Value T
}

// DisplayOrder returns items matching pred first, then the rest, each group in
// stored order. Every entry keeps its stored index so callers can address it.
func DisplayOrder[T any](items []T, pred func(T) bool) []Indexed[T] {
	all := make([]Indexed[T], len(items))
	for i, it := range items {
		all[i] = Indexed[T]{Index: i, Value: it}
	}
	done, open := PartitionStable(all, func(x Indexed[T]) bool { return pred(x.Value) })
	return append(done, open...)
}

func ListDisplayOrder(lists []model.List) []Indexed[model.List] {
	return DisplayOrder(lists, IsListComplete)
}

func TodoDisplayOrder(todos []model.Todo) []Indexed[model.Todo] {
	return DisplayOrder(todos, IsTodoComplete)
}
