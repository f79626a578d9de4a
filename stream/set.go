// File: stream/set.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Set is an ordered, circular collection of read-mode descriptors owned by
// a single consumer task, together with a restartable iterator used by
// Poll. The ring is intrusive: each Descriptor carries its own next link,
// so membership costs no extra allocation beyond the descriptor itself.

package stream

import "github.com/momentics/lpel/api"

// Set is a cyclic collection of read-mode stream descriptors belonging to
// one consumer task. The zero value is an empty set.
type Set struct {
	cur *Descriptor // the descriptor iteration currently starts from
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Add inserts sd into the set. Precondition: sd.mode == api.ModeRead.
func (set *Set) Add(sd *Descriptor) {
	if sd.mode != api.ModeRead {
		api.PreconditionViolation("stream: Set.Add of a write descriptor")
	}
	if set.cur == nil {
		sd.next = sd
		set.cur = sd
		return
	}
	sd.next = set.cur.next
	set.cur.next = sd
}

// Remove unlinks sd from the set. No-op if sd is not a member.
func (set *Set) Remove(sd *Descriptor) {
	if set.cur == nil {
		return
	}
	if set.cur == sd && sd.next == sd {
		set.cur = nil
		sd.next = nil
		return
	}
	p := set.cur
	for {
		if p.next == sd {
			p.next = sd.next
			if set.cur == sd {
				set.cur = p.next
			}
			sd.next = nil
			return
		}
		p = p.next
		if p == set.cur {
			return
		}
	}
}

// Empty reports whether the set has no members.
func (set *Set) Empty() bool { return set.cur == nil }

// rotateTo moves the iteration start to sd, implementing Poll's
// postcondition: traversal after Poll returns begins just past the
// descriptor that caused the wakeup.
func (set *Set) rotateTo(sd *Descriptor) {
	set.cur = sd.next
}

// iterator is a restartable traversal cursor over a Set, used by Poll's
// scan and disarm passes.
type iterator struct {
	start *Descriptor
	next  *Descriptor
	done  bool
}

func (set *Set) newIterator() *iterator {
	return &iterator{start: set.cur, next: set.cur}
}

func (it *iterator) hasNext() bool {
	return !it.done && it.next != nil
}

func (it *iterator) Next() *Descriptor {
	sd := it.next
	it.next = sd.next
	if it.next == it.start {
		it.done = true
	}
	return sd
}

func (it *iterator) reset() {
	it.next = it.start
	it.done = false
}
