// Package concept names the kinds of thing a move can do, so that search
// and analysis code can extract features from actions.
package concept

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Concept is one feature of a move.
type Concept uint

const (
	Decision Concept = iota
	Effect
	Add
	Remove
	FromTo
	Capture
	Copy
	Insert
	Promotion
	Select
	Stack
	SetState
	SetRotation
	SetValue
	SetCount
	SetHidden
	LargePiece
	Track
	NumConcepts
)

var names = [NumConcepts]string{
	"Decision", "Effect", "Add", "Remove", "FromTo", "Capture", "Copy",
	"Insert", "Promotion", "Select", "Stack", "SetState", "SetRotation",
	"SetValue", "SetCount", "SetHidden", "LargePiece", "Track",
}

func (c Concept) String() string {
	if c < NumConcepts {
		return names[c]
	}
	return fmt.Sprintf("Concept(%d)", uint(c))
}

// Parse is the inverse of String.
func Parse(s string) (Concept, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return Concept(i), nil
		}
	}
	return 0, fmt.Errorf("unknown concept %q", s)
}

// Set is a set of concepts.
type Set struct {
	b *bitset.BitSet
}

// NewSet creates a set holding cs.
func NewSet(cs ...Concept) Set {
	s := Set{b: bitset.New(uint(NumConcepts))}
	for _, c := range cs {
		s.b.Set(uint(c))
	}
	return s
}

// Add inserts c.
func (s Set) Add(c Concept) Set {
	s.b.Set(uint(c))
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Concept) bool {
	return s.b != nil && s.b.Test(uint(c))
}

// Union adds every concept of o to s.
func (s Set) Union(o Set) Set {
	if o.b != nil {
		s.b.InPlaceUnion(o.b)
	}
	return s
}

// Len is the number of concepts in the set.
func (s Set) Len() int {
	if s.b == nil {
		return 0
	}
	return int(s.b.Count())
}

// Concepts lists the members in ascending order.
func (s Set) Concepts() []Concept {
	if s.b == nil {
		return nil
	}
	out := make([]Concept, 0, s.b.Count())
	for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
		out = append(out, Concept(i))
	}
	return out
}

func (s Set) String() string {
	parts := make([]string, 0, s.Len())
	for _, c := range s.Concepts() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
