/*
Package cpset implements sets of Unicode code-points as sorted lists of
inclusive ranges.

A Set is kept minimal at all times: its ranges are strictly increasing, and no
two neighbouring ranges overlap or touch. Inserting a range coalesces it with
every range it overlaps or is adjacent to; subtracting a range splits or drops
ranges as needed.

	s := cpset.New(cpset.Range{Lo: 'A', Hi: 'Z'}, cpset.Range{Lo: 'a', Hi: 'z'})
	s.Subtract(cpset.Range{Lo: 'M', Hi: 'm'})   // {U+0041..U+004C, U+006E..U+007A}

Sets are plain values owned by a single computation. They are not safe for
concurrent mutation; clients clone a set if they need to keep a copy.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package cpset

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Range is an inclusive span of code-points [Lo…Hi].
type Range struct {
	Lo, Hi rune
}

// Single returns a range holding exactly one code-point.
func Single(r rune) Range {
	return Range{Lo: r, Hi: r}
}

// Valid is a predicate: is r a non-empty range of Unicode code-points?
func (r Range) Valid() bool {
	return r.Lo >= 0 && r.Lo <= r.Hi && r.Hi <= unicode.MaxRune
}

// Count returns the number of code-points in r.
func (r Range) Count() int {
	return int(r.Hi-r.Lo) + 1
}

// Contains is a predicate: is c within r?
func (r Range) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}

func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("U+%04X", r.Lo)
	}
	return fmt.Sprintf("U+%04X..U+%04X", r.Lo, r.Hi)
}

// mergesWith is true if r and other overlap or are adjacent.
func (r Range) mergesWith(other Range) bool {
	return r.Hi+1 >= other.Lo && r.Lo <= other.Hi+1
}

func (r Range) merge(other Range) Range {
	return Range{Lo: min(r.Lo, other.Lo), Hi: max(r.Hi, other.Hi)}
}

// subtract appends to out what is left of r after removing other.
// At most two residuals are produced.
func (r Range) subtract(other Range, out []Range) []Range {
	if r.Lo > other.Hi || r.Hi < other.Lo {
		return append(out, r)
	}
	if r.Lo < other.Lo {
		out = append(out, Range{Lo: r.Lo, Hi: other.Lo - 1})
	}
	if r.Hi > other.Hi {
		out = append(out, Range{Lo: other.Hi + 1, Hi: r.Hi})
	}
	return out
}

// --- Sets ------------------------------------------------------------------

// Set is a set of code-points, represented as a minimal sorted list of
// disjoint, non-adjacent ranges. The zero value is an empty set.
type Set struct {
	ranges []Range
}

// New creates a set from a collection of ranges, given in any order.
// Ranges may overlap; the result does not depend on the order of items.
func New(items ...Range) *Set {
	s := &Set{}
	for _, r := range items {
		s.Add(r)
	}
	return s
}

// FromRangeTable creates a set from a Unicode range table, e.g., unicode.Latin.
func FromRangeTable(rt *unicode.RangeTable) *Set {
	s := &Set{}
	if rt == nil {
		return s
	}
	rangetable.Visit(rt, func(r rune) {
		s.AddRune(r)
	})
	return s
}

// Add inserts range r, coalescing it with every range it overlaps or touches.
// Invalid ranges are ignored.
func (s *Set) Add(r Range) {
	if !r.Valid() {
		return
	}
	pos := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Lo >= r.Lo
	})
	s.ranges = append(s.ranges, Range{})
	copy(s.ranges[pos+1:], s.ranges[pos:])
	s.ranges[pos] = r
	s.mergeAround(pos)
}

// AddRune inserts a single code-point.
func (s *Set) AddRune(c rune) {
	s.Add(Single(c))
}

// mergeAround coalesces the range at index i with its predecessor (at most
// once) and then with as many successors as it reaches.
func (s *Set) mergeAround(i int) {
	if i > 0 && s.ranges[i-1].mergesWith(s.ranges[i]) {
		s.ranges[i-1] = s.ranges[i-1].merge(s.ranges[i])
		s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
		i--
	}
	for i+1 < len(s.ranges) && s.ranges[i].mergesWith(s.ranges[i+1]) {
		s.ranges[i] = s.ranges[i].merge(s.ranges[i+1])
		s.ranges = append(s.ranges[:i+1], s.ranges[i+2:]...)
	}
}

// Subtract removes every code-point of r from s.
//
// Residuals of disjoint, non-adjacent ranges are never adjacent to each
// other, therefore no re-merge is necessary.
func (s *Set) Subtract(r Range) {
	if !r.Valid() || len(s.ranges) == 0 {
		return
	}
	residuals := make([]Range, 0, len(s.ranges)+1)
	for _, x := range s.ranges {
		residuals = x.subtract(r, residuals)
	}
	s.ranges = residuals
}

// SubtractSet removes every code-point of other from s.
func (s *Set) SubtractSet(other *Set) {
	if other == nil {
		return
	}
	for _, r := range other.ranges {
		s.Subtract(r)
	}
}

// Union adds every code-point of other to s.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for _, r := range other.ranges {
		s.Add(r)
	}
}

// Contains is a predicate: is code-point c a member of s?
func (s *Set) Contains(c rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Lo > c
	})
	return i > 0 && s.ranges[i-1].Hi >= c
}

// Overlaps is a predicate: do s and other have at least one code-point in
// common?
func (s *Set) Overlaps(other *Set) bool {
	if other == nil {
		return false
	}
	i, j := 0, 0
	for i < len(s.ranges) && j < len(other.ranges) {
		a, b := s.ranges[i], other.ranges[j]
		if a.Lo <= b.Hi && b.Lo <= a.Hi {
			return true
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return false
}

// Count returns the number of code-points in s.
func (s *Set) Count() int {
	n := 0
	for _, r := range s.ranges {
		n += r.Count()
	}
	return n
}

// Len returns the number of ranges in s.
func (s *Set) Len() int {
	return len(s.ranges)
}

// IsEmpty is a predicate: does s contain no code-points?
func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Ranges returns a copy of the ranges of s, in ascending order.
func (s *Set) Ranges() []Range {
	rs := make([]Range, len(s.ranges))
	copy(rs, s.ranges)
	return rs
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{ranges: s.Ranges()}
}

// Equals is a predicate: do s and other contain the same code-points?
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return s.IsEmpty()
	}
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if other.ranges[i] != r {
			return false
		}
	}
	return true
}

// RangeTable converts s to a Unicode range table, suitable for unicode.Is.
func (s *Set) RangeTable() *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	for _, r := range s.ranges {
		if r.Lo <= 0xFFFF {
			hi := min(r.Hi, 0xFFFF)
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r.Lo), Hi: uint16(hi), Stride: 1})
			if r.Hi <= 0xFFFF {
				continue
			}
			r.Lo = 0x10000
		}
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(r.Lo), Hi: uint32(r.Hi), Stride: 1})
	}
	return rangetable.Merge(rt)
}

func (s *Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range s.ranges {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteByte('}')
	return b.String()
}
