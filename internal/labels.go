package simtop

import "fmt"

// BuildLabels returns the static horizontal axis, seconds relative to now:
// [-(capacity-1), ..., -1, 0]. It is computed once per run; samples move
// across it while the labels stay put.
func BuildLabels(capacity int) []int {
	if capacity < 1 {
		return nil
	}
	labels := make([]int, capacity)
	for i := range labels {
		labels[i] = i - (capacity - 1)
	}
	return labels
}

// TickLabel returns the text drawn under an axis position: "Now" at 0, the
// offset in seconds at every fifth second, blank otherwise.
func TickLabel(offset int) string {
	if offset == 0 {
		return "Now"
	}
	if offset < 0 && offset%5 == 0 {
		return fmt.Sprintf("%ds", offset)
	}
	return ""
}
