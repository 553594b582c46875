// Package partition splits a collection into equivalence classes by a
// derived key.
package partition

// ByKey partitions items into classes of equal keys and returns them as
// index slices. Items for which key reports ok=false are placed in their own
// singleton class. Classes appear in order of their first member and members
// keep input order, so the result depends only on the input sequence.
func ByKey[T any, K comparable](items []T, key func(T) (K, bool)) [][]int {
	classes := make([][]int, 0, len(items))
	slot := make(map[K]int)
	for i, item := range items {
		k, ok := key(item)
		if !ok {
			classes = append(classes, []int{i})
			continue
		}
		if c, seen := slot[k]; seen {
			classes[c] = append(classes[c], i)
			continue
		}
		slot[k] = len(classes)
		classes = append(classes, []int{i})
	}
	return classes
}

// Index maps every item index to the position of its class in classes.
func Index(classes [][]int, n int) []int {
	idx := make([]int, n)
	for c, members := range classes {
		for _, i := range members {
			idx[i] = c
		}
	}
	return idx
}
