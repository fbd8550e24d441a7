package eqset

import "cmp"

// LoopIterator walks a Set lap after lap without ever terminating. A lap
// visits every element that was due when the lap began, in class order, plus
// elements added during the lap to classes the cursor has not passed yet.
//
// The lap boundary is tracked explicitly: each element records the lap in
// which it is next due, and the iterator keeps a count of elements still owed
// to the current lap. Mutations adjust that state incrementally, so an
// in-progress lap never skips or repeats an element.
type LoopIterator[T comparable, K cmp.Ordered] struct {
	set       *Set[T, K]
	lap       int
	started   bool // cursor points at a class of the current lap
	cursor    K
	pos       int // index of the next candidate inside the cursor class
	remaining int
	visited   int
}

// LoopIterator returns the set's loop iterator, creating it on first use.
// A new iterator starts a lap over every element currently in the set.
func (s *Set[T, K]) LoopIterator() *LoopIterator[T, K] {
	if s.loop == nil {
		s.loop = &LoopIterator[T, K]{set: s}
		s.loop.reset()
	}
	return s.loop
}

// ResetLoopIterator discards the lap state and starts a fresh lap over the
// current contents. Classes return to insertion order.
func (s *Set[T, K]) ResetLoopIterator() *LoopIterator[T, K] {
	if s.loop == nil {
		return s.LoopIterator()
	}
	s.restoreOrder()
	s.loop.reset()
	return s.loop
}

func (it *LoopIterator[T, K]) reset() {
	it.lap = 0
	it.started = false
	it.pos = 0
	it.visited = 0
	it.remaining = len(it.set.entries)
	for _, e := range it.set.entries {
		e.due = 0
	}
}

// Next returns the next element, wrapping to the lowest class after the
// highest one. It panics if the set is empty.
func (it *LoopIterator[T, K]) Next() T {
	s := it.set
	if len(s.entries) == 0 {
		panic("eqset: Next on empty set")
	}
	if it.remaining == 0 {
		it.wrap()
	}
	for {
		if it.started {
			if c := s.classAt(it.cursor); c != nil {
				for it.pos < len(c.elems) {
					x := c.elems[it.pos]
					it.pos++
					if e := s.entries[x]; e.due <= it.lap {
						e.due = it.lap + 1
						it.remaining--
						it.visited++
						return x
					}
				}
			}
		}
		c := it.nextClass()
		if c == nil {
			panic("eqset: loop iterator lost track of the current lap")
		}
		it.cursor = c.key
		it.started = true
		it.pos = 0
		if s.opts.shuffle {
			s.shuffleClass(c)
		}
	}
}

// Lap returns the number of completed laps.
func (it *LoopIterator[T, K]) Lap() int {
	return it.lap
}

// LapLength returns the number of elements the current lap consists of:
// those already yielded plus those still owed.
func (it *LoopIterator[T, K]) LapLength() int {
	return it.visited + it.remaining
}

// LapRemaining returns how many elements the current lap still owes.
func (it *LoopIterator[T, K]) LapRemaining() int {
	return it.remaining
}

// Visited returns how many elements were yielded in the current lap.
func (it *LoopIterator[T, K]) Visited() int {
	return it.visited
}

func (it *LoopIterator[T, K]) wrap() {
	it.lap++
	it.started = false
	it.pos = 0
	it.visited = 0
	it.remaining = len(it.set.entries)
}

// ahead reports whether a class keyed k is still to be visited in this lap.
// The cursor class itself counts as ahead: new members are appended behind
// the cursor position.
func (it *LoopIterator[T, K]) ahead(k K) bool {
	return !it.started || k >= it.cursor
}

// nextClass returns the first class after the cursor, or the lowest class
// when the lap has not started.
func (it *LoopIterator[T, K]) nextClass() *class[T, K] {
	s := it.set
	i := 0
	if it.started {
		var found bool
		i, found = s.search(it.cursor)
		if found {
			i++
		}
	}
	if i >= len(s.classes) {
		return nil
	}
	return s.classes[i]
}
