package utils

import (
	"iter"

	"github.com/oomph-ac/climber/oerror"
)

// Ring keeps the most recent items pushed to it, dropping the oldest one once it is full.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends an item, overwriting the oldest item if the ring is full.
func (r *Ring[T]) Push(item T) error {
	if len(r.items) == 0 {
		return oerror.New("ring: push on zero-capacity ring")
	}
	r.items[(r.head+r.size)%len(r.items)] = item
	if r.size == len(r.items) {
		r.head = (r.head + 1) % len(r.items)
	} else {
		r.size++
	}
	return nil
}

// At returns the item at logical position index, 0 being the oldest.
func (r *Ring[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= r.size {
		return zero, false
	}
	return r.items[(r.head+index)%len(r.items)], true
}

// Last returns the most recently pushed item.
func (r *Ring[T]) Last() (T, bool) {
	return r.At(r.size - 1)
}

func (r *Ring[T]) Len() int {
	return r.size
}

// All iterates from the oldest item to the newest.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range r.size {
			if !yield(r.items[(r.head+i)%len(r.items)]) {
				return
			}
		}
	}
}
