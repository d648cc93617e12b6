package pricing

// ReorderOffset is added to every level order before the final reindex pass,
// keeping the (entity, level_order) unique index satisfied mid-update.
const ReorderOffset = 1000

// ClampOrder clamps a requested 1-based level order into [1, n].
func ClampOrder(requested, n int) int {
	if n < 1 {
		return 1
	}
	if requested < 1 {
		return 1
	}
	if requested > n {
		return n
	}
	return requested
}

// Move returns a new slice with the element at index from relocated to index
// to (both 0-based). Out-of-range indexes are clamped.
func Move[T any](items []T, from, to int) []T {
	if len(items) == 0 || from < 0 || from >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	moved := items[from]
	rest := make([]T, 0, len(items)-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}
	out := make([]T, 0, len(items))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}
