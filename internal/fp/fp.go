// Package fp holds small generic helpers for working with slices functionally.
// None of them modify their input.
package fp

import (
	"cmp"
	"slices"
)

// Map returns f applied to each element of s.
func Map[T, U any](s []T, f func(T) U) []U {
	out := make([]U, len(s))
	for i, v := range s {
		out[i] = f(v)
	}
	return out
}

// Filter returns the elements of s for which keep reports true.
func Filter[T any](s []T, keep func(T) bool) []T {
	var out []T
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds s from the left, starting with the first element.
// The second result is false when s is empty.
func Reduce[T any](s []T, f func(T, T) T) (T, bool) {
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	acc := s[0]
	for _, v := range s[1:] {
		acc = f(acc, v)
	}
	return acc, true
}

// Fold folds s from the left starting with init.
func Fold[T, A any](s []T, init A, f func(A, T) A) A {
	acc := init
	for _, v := range s {
		acc = f(acc, v)
	}
	return acc
}

// SortedBy returns a sorted copy of s ordered by key. The sort is stable.
func SortedBy[T any, K cmp.Ordered](s []T, key func(T) K) []T {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
	return out
}

// Number is the set of types Sum and Product accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum adds the numbers in s.
func Sum[T Number](s []T) T {
	return Fold(s, T(0), func(a, b T) T { return a + b })
}

// Product multiplies the numbers in s. The product of no numbers is 1.
func Product[T Number](s []T) T {
	return Fold(s, T(1), func(a, b T) T { return a * b })
}
