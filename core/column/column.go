// Package column holds the whole-column primitives the shower tables are
// built from: shifted-index gathers, per-distinct-value lookups and boolean
// mask algebra. Every function allocates its result; inputs are never
// modified.
package column

// Gather returns col[idx[i]] for every i.
func Gather[T any](col []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = col[j]
	}
	return out
}

// Shift returns the index column (i - k) mod n for i in [0, n). Negative
// offsets wrap onto the last rows of the column.
func Shift(n, k int) []int {
	idx := make([]int, n)
	if n == 0 {
		return idx
	}
	for i := range idx {
		idx[i] = ((i-k)%n + n) % n
	}
	return idx
}

// Unique returns the distinct values of col in first-seen order.
func Unique[K comparable](col []K) []K {
	seen := make(map[K]struct{})
	var out []K
	for _, v := range col {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Lookup evaluates fn once per distinct key of col and gathers the result
// back onto the rows.
func Lookup[K comparable, V any](col []K, fn func(K) V) []V {
	table := make(map[K]V)
	for _, k := range Unique(col) {
		table[k] = fn(k)
	}
	return Map(col, table)
}

// Map applies a precomputed key->value table to every row. Keys missing from
// the table yield the zero value.
func Map[K comparable, V any](col []K, table map[K]V) []V {
	out := make([]V, len(col))
	for i, k := range col {
		out[i] = table[k]
	}
	return out
}

// Apply maps fn over col.
func Apply[T, U any](col []T, fn func(T) U) []U {
	out := make([]U, len(col))
	for i, v := range col {
		out[i] = fn(v)
	}
	return out
}

// Zip combines two columns of equal length row by row.
func Zip[A, B, C any](a []A, b []B, fn func(A, B) C) []C {
	out := make([]C, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out
}

// Where returns a[i] where mask[i] and b[i] otherwise.
func Where[T any](mask []bool, a, b []T) []T {
	out := make([]T, len(mask))
	for i, m := range mask {
		if m {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Fill returns a copy of col with v written wherever mask is set.
func Fill[T any](col []T, mask []bool, v T) []T {
	out := make([]T, len(col))
	copy(out, col)
	for i, m := range mask {
		if m {
			out[i] = v
		}
	}
	return out
}

// Filter keeps col[i] where keep[i].
func Filter[T any](col []T, keep []bool) []T {
	out := make([]T, 0, len(col))
	for i, k := range keep {
		if k {
			out = append(out, col[i])
		}
	}
	return out
}

// Const returns a column of n copies of v.
func Const[T any](n int, v T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// And is the element-wise conjunction of masks of equal length.
func And(masks ...[]bool) []bool {
	if len(masks) == 0 {
		return nil
	}
	out := make([]bool, len(masks[0]))
	copy(out, masks[0])
	for _, m := range masks[1:] {
		for i := range out {
			out[i] = out[i] && m[i]
		}
	}
	return out
}

// Or is the element-wise disjunction of masks of equal length.
func Or(masks ...[]bool) []bool {
	if len(masks) == 0 {
		return nil
	}
	out := make([]bool, len(masks[0]))
	copy(out, masks[0])
	for _, m := range masks[1:] {
		for i := range out {
			out[i] = out[i] || m[i]
		}
	}
	return out
}

// Not negates a mask.
func Not(mask []bool) []bool {
	out := make([]bool, len(mask))
	for i, m := range mask {
		out[i] = !m
	}
	return out
}

// Count returns the number of set entries.
func Count(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

// Differ counts the rows where a and b disagree.
func Differ(a, b []bool) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
