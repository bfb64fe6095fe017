// Package mapper holds the slice helpers shared by persistence mappers and
// repositories.
package mapper

import "fmt"

// MapSlice converts every row with fn. A nil input stays nil so callers can
// tell "not loaded" from "no rows".
func MapSlice[T any, R any](rows []T, fn func(T) R) []R {
	if rows == nil {
		return nil
	}

	out := make([]R, len(rows))
	for i, row := range rows {
		out[i] = fn(row)
	}
	return out
}

// MapSliceWithError converts rows with fn and stops at the first failure,
// reporting the row position.
func MapSliceWithError[T any, R any](rows []T, fn func(T) (R, error)) ([]R, error) {
	if rows == nil {
		return nil, nil
	}

	out := make([]R, len(rows))
	for i, row := range rows {
		mapped, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = mapped
	}
	return out, nil
}
