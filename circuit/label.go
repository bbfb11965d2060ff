package circuit

import (
	"maps"
	"slices"
	"strings"
)

// Label identifies a single qubit line, e.g. "Q0".
type Label string

// Subset represents a set of qubit labels.
type Subset struct {
	elements map[Label]struct{}
}

// NewSubset initializes a new Subset with any number of labels.
func NewSubset(labels ...Label) Subset {
	set := make(map[Label]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}

	return Subset{
		elements: set,
	}
}

// Add inserts one or more labels into the subset.
func (s *Subset) Add(labels ...Label) {
	if s.elements == nil {
		s.elements = make(map[Label]struct{})
	}
	for _, l := range labels {
		s.elements[l] = struct{}{}
	}
}

// Contains checks if the subset contains the given label.
func (s Subset) Contains(label Label) bool {
	_, ok := s.elements[label]

	return ok
}

// ContainsAll checks if the subset contains every label of other.
func (s Subset) ContainsAll(other Subset) bool {
	for l := range other.elements {
		if !s.Contains(l) {
			return false
		}
	}

	return true
}

// Length returns the number of labels in the subset.
func (s Subset) Length() int {
	return len(s.elements)
}

// List returns the labels as a sorted slice.
func (s Subset) List() []Label {
	if len(s.elements) == 0 {
		return []Label{}
	}

	labels := slices.Collect(maps.Keys(s.elements))
	slices.Sort(labels)

	return labels
}

// String returns the labels as a sorted, parenthesized tuple, e.g. "(Q0,Q1)".
// A Subset's String is used as the child key of simultaneous designs.
//
// Implements the fmt.Stringer interface.
func (s Subset) String() string {
	labels := s.List()
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}

	return "(" + strings.Join(strs, ",") + ")"
}

// Equal checks if two Subsets contain the same labels.
func (s Subset) Equal(other Subset) bool {
	return maps.Equal(s.elements, other.elements)
}

// Disjoint reports whether the two subsets share no label.
func (s Subset) Disjoint(other Subset) bool {
	small, large := s, other
	if large.Length() < small.Length() {
		small, large = large, small
	}
	for l := range small.elements {
		if large.Contains(l) {
			return false
		}
	}

	return true
}

// Union returns a new Subset containing the labels of both subsets.
func (s Subset) Union(other Subset) Subset {
	u := NewSubset(s.List()...)
	u.Add(other.List()...)

	return u
}
