// Package table implements the engine's columnar storage. Every table keeps
// one slice per column, aligned by row, and locates rows by binary search over
// a sorted identifier column. Row positions shift on insert and delete;
// identifiers never do.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNotFound is returned when an identifier is not present in a table.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting an identifier that already exists.
	ErrDuplicate = errors.New("duplicate identifier")
	// ErrTableFull is returned when a table's identifier counter is exhausted.
	ErrTableFull = errors.New("identifier space exhausted")
)

// ID is the constraint shared by all table identifiers.
type ID interface {
	~uint16
}

// Index is a strictly sorted, duplicate-free identifier column.
type Index[K cmp.Ordered] struct {
	keys []K
}

// Len returns the number of rows.
func (x *Index[K]) Len() int {
	return len(x.keys)
}

// Find returns the row holding k.
func (x *Index[K]) Find(k K) (int, bool) {
	return slices.BinarySearch(x.keys, k)
}

// At returns the identifier stored at row i.
func (x *Index[K]) At(i int) K {
	return x.keys[i]
}

// Keys returns a copy of the identifier column.
func (x *Index[K]) Keys() []K {
	return slices.Clone(x.keys)
}

// insert places k at its sorted position and returns that row.
func (x *Index[K]) insert(k K) (int, error) {
	i, found := slices.BinarySearch(x.keys, k)
	if found {
		return i, ErrDuplicate
	}
	x.keys = slices.Insert(x.keys, i, k)
	return i, nil
}

// remove deletes k and returns the row it occupied.
func (x *Index[K]) remove(k K) (int, bool) {
	i, found := slices.BinarySearch(x.keys, k)
	if !found {
		return -1, false
	}
	x.keys = slices.Delete(x.keys, i, i+1)
	return i, true
}

// check verifies the sorted invariant and that every column has n rows.
func (x *Index[K]) check(columns ...int) error {
	for i := 1; i < len(x.keys); i++ {
		if x.keys[i-1] >= x.keys[i] {
			return fmt.Errorf("identifier column unsorted at row %d", i)
		}
	}
	for c, n := range columns {
		if n != len(x.keys) {
			return fmt.Errorf("column %d has %d rows, identifier column has %d", c, n, len(x.keys))
		}
	}
	return nil
}

// counter hands out monotonically increasing identifiers starting at 1.
type counter[K ID] struct {
	last K
}

func (c *counter[K]) next() (K, error) {
	if c.last == math.MaxUint16 {
		return 0, ErrTableFull
	}
	c.last++
	return c.last, nil
}

func insertAt[T any](col []T, i int, v T) []T {
	return slices.Insert(col, i, v)
}

func deleteAt[T any](col []T, i int) []T {
	return slices.Delete(col, i, i+1)
}
