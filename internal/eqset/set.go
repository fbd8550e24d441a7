// Package eqset implements a set whose elements are grouped into equivalence
// classes by a key function. Classes are visited in ascending key order, either
// in a single pass (All, Slice) or lap after lap through a LoopIterator that
// stays consistent while the set is mutated between calls to Next.
package eqset

import (
	"cmp"
	"hash/maphash"
	"iter"
	"math/rand/v2"
	"slices"
)

// Option configures a Set.
type Option func(*options)

type options struct {
	shuffle bool
	rng     *rand.Rand
}

// WithShuffle randomizes element order inside each class every time a fresh
// ordering is produced. Class order is never affected.
func WithShuffle(on bool) Option {
	return func(o *options) { o.shuffle = on }
}

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// class holds the members of one equivalence class in their current order.
type class[T comparable, K cmp.Ordered] struct {
	key   K
	elems []T
}

// entry is the per-element bookkeeping.
type entry[K cmp.Ordered] struct {
	key K      // class the element currently sits in
	seq uint64 // insertion sequence, restores unshuffled order
	due int    // loop lap in which the element is next yielded
}

// Set is a mutable set ordered by equivalence class. The zero value is not
// usable; create one with New. A Set is not safe for concurrent use.
type Set[T comparable, K cmp.Ordered] struct {
	keyFn   func(T) K
	opts    options
	classes []*class[T, K] // ascending by key
	entries map[T]*entry[K]
	seq     uint64
	loop    *LoopIterator[T, K]
}

var hashSeed = maphash.MakeSeed()

// New creates an empty set classifying elements with key.
func New[T comparable, K cmp.Ordered](key func(T) K, opts ...Option) *Set[T, K] {
	if key == nil {
		panic("eqset: nil key function")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Set[T, K]{
		keyFn:   key,
		opts:    o,
		entries: make(map[T]*entry[K]),
	}
}

// Len returns the number of elements in the set.
func (s *Set[T, K]) Len() int {
	return len(s.entries)
}

// Contains reports whether x is in the set.
func (s *Set[T, K]) Contains(x T) bool {
	_, ok := s.entries[x]
	return ok
}

// ClassOf returns the key of the class x currently belongs to.
func (s *Set[T, K]) ClassOf(x T) (K, bool) {
	e, ok := s.entries[x]
	if !ok {
		var zero K
		return zero, false
	}
	return e.key, true
}

// Keys returns the distinct class keys in ascending order.
func (s *Set[T, K]) Keys() []K {
	keys := make([]K, len(s.classes))
	for i, c := range s.classes {
		keys[i] = c.key
	}
	return keys
}

// Add inserts x and reports whether it was not already present. While a loop
// iterator is active, x joins the current lap if its class has not been passed
// by the cursor yet, and waits for the next lap otherwise.
func (s *Set[T, K]) Add(x T) bool {
	return s.insert(x, false)
}

// AddExpired inserts x like Add but always defers it to the next lap of the
// loop iterator, even when its class is still ahead of the cursor.
func (s *Set[T, K]) AddExpired(x T) bool {
	return s.insert(x, true)
}

func (s *Set[T, K]) insert(x T, expired bool) bool {
	if _, ok := s.entries[x]; ok {
		return false
	}
	k := s.keyFn(x)
	s.seq++
	e := &entry[K]{key: k, seq: s.seq}
	s.entries[x] = e
	c := s.classFor(k)
	c.elems = append(c.elems, x)

	if it := s.loop; it != nil {
		if !expired && it.ahead(k) {
			e.due = it.lap
			it.remaining++
		} else {
			e.due = it.lap + 1
		}
	}
	return true
}

// Remove deletes x and reports whether it was present. Removing an element
// the loop iterator has not reached in the current lap shortens that lap;
// removing one it already yielded does not.
func (s *Set[T, K]) Remove(x T) bool {
	e, ok := s.entries[x]
	if !ok {
		return false
	}
	if it := s.loop; it != nil && e.due <= it.lap {
		it.remaining--
	}
	s.detach(x, e.key)
	delete(s.entries, x)
	return true
}

// ResetClass re-evaluates the key of x after it changed in place and moves x
// to its new class. It returns false if x is not in the set. An element the
// loop iterator still owes the current lap is deferred to the next lap when
// its new class lies behind the cursor.
func (s *Set[T, K]) ResetClass(x T) bool {
	e, ok := s.entries[x]
	if !ok {
		return false
	}
	k := s.keyFn(x)
	if k == e.key {
		return true
	}
	s.detach(x, e.key)
	e.key = k
	c := s.classFor(k)
	c.elems = append(c.elems, x)

	if it := s.loop; it != nil && e.due <= it.lap && !it.ahead(k) {
		e.due = it.lap + 1
		it.remaining--
	}
	return true
}

// Partition removes the first n elements in iteration order and returns them
// as a new set with the same key function and options. Relative order is kept.
func (s *Set[T, K]) Partition(n int) *Set[T, K] {
	out := &Set[T, K]{
		keyFn:   s.keyFn,
		opts:    s.opts,
		entries: make(map[T]*entry[K]),
	}
	if n <= 0 {
		return out
	}
	for _, x := range s.ordered() {
		if n == 0 {
			break
		}
		s.Remove(x)
		out.insert(x, false)
		n--
	}
	return out
}

// All returns an iterator over a snapshot of the set: classes in ascending
// order, elements inside a class in insertion order or shuffled. It does not
// wrap around.
func (s *Set[T, K]) All() iter.Seq[T] {
	snapshot := s.Slice()
	return func(yield func(T) bool) {
		for _, x := range snapshot {
			if !yield(x) {
				return
			}
		}
	}
}

// Slice returns the elements in the order All would yield them.
func (s *Set[T, K]) Slice() []T {
	out := make([]T, 0, len(s.entries))
	for _, c := range s.classes {
		start := len(out)
		out = append(out, c.elems...)
		if s.opts.shuffle {
			part := out[start:]
			s.opts.rng.Shuffle(len(part), func(i, j int) { part[i], part[j] = part[j], part[i] })
		}
	}
	return out
}

// Hash returns a hash of the element set. It only depends on which elements
// are present, not on their order, classes, or the operations that led there.
func (s *Set[T, K]) Hash() uint64 {
	var h uint64
	for x := range s.entries {
		h += maphash.Comparable(hashSeed, x)
	}
	return h
}

// Equal reports whether s and o hold the same elements.
func (s *Set[T, K]) Equal(o *Set[T, K]) bool {
	if o == nil || len(s.entries) != len(o.entries) {
		return false
	}
	for x := range s.entries {
		if _, ok := o.entries[x]; !ok {
			return false
		}
	}
	return true
}

// ordered returns the elements in their stored order without reshuffling.
func (s *Set[T, K]) ordered() []T {
	out := make([]T, 0, len(s.entries))
	for _, c := range s.classes {
		out = append(out, c.elems...)
	}
	return out
}

func (s *Set[T, K]) search(k K) (int, bool) {
	return slices.BinarySearchFunc(s.classes, k, func(c *class[T, K], k K) int {
		return cmp.Compare(c.key, k)
	})
}

func (s *Set[T, K]) classAt(k K) *class[T, K] {
	if i, ok := s.search(k); ok {
		return s.classes[i]
	}
	return nil
}

// classFor returns the class for k, creating it if needed.
func (s *Set[T, K]) classFor(k K) *class[T, K] {
	i, ok := s.search(k)
	if ok {
		return s.classes[i]
	}
	c := &class[T, K]{key: k}
	s.classes = slices.Insert(s.classes, i, c)
	return c
}

// detach removes x from the class keyed k, keeping the loop cursor on the
// same next element and dropping the class once it is empty.
func (s *Set[T, K]) detach(x T, k K) {
	ci, ok := s.search(k)
	if !ok {
		panic("eqset: element class missing")
	}
	c := s.classes[ci]
	i := slices.Index(c.elems, x)
	if i < 0 {
		panic("eqset: element missing from its class")
	}
	c.elems = slices.Delete(c.elems, i, i+1)

	it := s.loop
	atCursor := it != nil && it.started && it.cursor == k
	if atCursor && i < it.pos {
		it.pos--
	}
	if len(c.elems) == 0 {
		s.classes = slices.Delete(s.classes, ci, ci+1)
		if atCursor {
			it.pos = 0
		}
	}
}

func (s *Set[T, K]) shuffleClass(c *class[T, K]) {
	s.opts.rng.Shuffle(len(c.elems), func(i, j int) { c.elems[i], c.elems[j] = c.elems[j], c.elems[i] })
}

// restoreOrder puts every class back into insertion order.
func (s *Set[T, K]) restoreOrder() {
	for _, c := range s.classes {
		slices.SortFunc(c.elems, func(a, b T) int {
			return cmp.Compare(s.entries[a].seq, s.entries[b].seq)
		})
	}
}
