package domain

import "sort"

// Set of opaque string identifiers (identities or session ids).
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Add(item string)     { s[item] = struct{}{} }
func (s Set) Discard(item string) { delete(s, item) }

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for item := range s {
		out[item] = struct{}{}
	}
	return out
}

// Difference returns the members of s absent from other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for item := range s {
		if !other.Has(item) {
			out[item] = struct{}{}
		}
	}
	return out
}

func (s Set) Union(other Set) Set {
	out := s.Clone()
	for item := range other {
		out[item] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

// Sorted returns the members as a deterministic slice, for externalization
// and logging. Sets can't go through JSON.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
