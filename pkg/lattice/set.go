package lattice

import "slices"

// StringSet is a set of strings that remembers insertion order.
// Materializing it with [StringSet.Slice] always yields elements in the order
// they were first added, which keeps every derived label reproducible.
//
// The zero value is an empty set ready to use.
type StringSet struct {
	items []string
	index map[string]struct{}
}

// NewStringSet returns a set holding items, deduplicated, in order.
func NewStringSet(items ...string) *StringSet {
	s := &StringSet{}
	s.Add(items...)
	return s
}

// Add inserts items that are not yet present.
func (s *StringSet) Add(items ...string) {
	if s.index == nil {
		s.index = make(map[string]struct{}, len(items))
	}
	for _, it := range items {
		if _, ok := s.index[it]; ok {
			continue
		}
		s.index[it] = struct{}{}
		s.items = append(s.items, it)
	}
}

// Has reports whether item is in the set.
func (s *StringSet) Has(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Len returns the number of elements.
func (s *StringSet) Len() int { return len(s.items) }

// Slice returns a copy of the elements in insertion order.
// An empty set yields an empty, non-nil slice.
func (s *StringSet) Slice() []string {
	if len(s.items) == 0 {
		return []string{}
	}
	return slices.Clone(s.items)
}

// Clone returns an independent copy of the set.
func (s *StringSet) Clone() *StringSet {
	return NewStringSet(s.items...)
}

// Union adds every element of other and returns the elements that were new.
func (s *StringSet) Union(other *StringSet) []string {
	var added []string
	for _, it := range other.items {
		if !s.Has(it) {
			added = append(added, it)
			s.Add(it)
		}
	}
	return added
}

// Difference returns the elements of s that are in none of others,
// preserving the order of s.
func (s *StringSet) Difference(others ...*StringSet) *StringSet {
	out := &StringSet{}
	for _, it := range s.items {
		excluded := false
		for _, o := range others {
			if o != nil && o.Has(it) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.Add(it)
		}
	}
	return out
}

// ContainsAll reports whether every element of other is in s.
func (s *StringSet) ContainsAll(other *StringSet) bool {
	for _, it := range other.items {
		if !s.Has(it) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same elements, ignoring order.
func (s *StringSet) Equal(other *StringSet) bool {
	return s.Len() == other.Len() && s.ContainsAll(other)
}
