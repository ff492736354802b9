package model

import (
	"fmt"
	"sort"
)

// SourceSet couples a set of source files with the set of build
// conditions under which every one of those files is compiled.
type SourceSet struct {
	Sources    map[string]bool
	Conditions map[Condition]bool
}

// NewSourceSet builds a SourceSet from the given files and conditions.
func NewSourceSet(sources []string, conditions []Condition) *SourceSet {
	s := &SourceSet{
		Sources:    make(map[string]bool, len(sources)),
		Conditions: make(map[Condition]bool, len(conditions)),
	}
	for _, f := range sources {
		s.Sources[f] = true
	}
	for _, c := range conditions {
		s.Conditions[c] = true
	}
	return s
}

// Intersect returns the source files common to both sets. The shared
// files are valid under the union of both sets' conditions.
func (s *SourceSet) Intersect(other *SourceSet) *SourceSet {
	out := &SourceSet{
		Sources:    make(map[string]bool),
		Conditions: make(map[Condition]bool, len(s.Conditions)+len(other.Conditions)),
	}
	for f := range s.Sources {
		if other.Sources[f] {
			out.Sources[f] = true
		}
	}
	for c := range s.Conditions {
		out.Conditions[c] = true
	}
	for c := range other.Conditions {
		out.Conditions[c] = true
	}
	return out
}

// Difference returns the source files of s not present in other. The
// remaining files are valid under the intersection of both sets'
// conditions.
func (s *SourceSet) Difference(other *SourceSet) *SourceSet {
	out := &SourceSet{
		Sources:    make(map[string]bool),
		Conditions: make(map[Condition]bool),
	}
	for f := range s.Sources {
		if !other.Sources[f] {
			out.Sources[f] = true
		}
	}
	for c := range s.Conditions {
		if other.Conditions[c] {
			out.Conditions[c] = true
		}
	}
	return out
}

// IsEmpty reports whether the set has no source files or no conditions.
// Files that build nowhere and conditions that build nothing both make a
// set empty.
func (s *SourceSet) IsEmpty() bool {
	return len(s.Sources) == 0 || len(s.Conditions) == 0
}

// Equal reports whether both sets hold exactly the same source files and
// conditions.
func (s *SourceSet) Equal(other *SourceSet) bool {
	if len(s.Sources) != len(other.Sources) ||
		len(s.Conditions) != len(other.Conditions) {
		return false
	}
	for f := range s.Sources {
		if !other.Sources[f] {
			return false
		}
	}
	for c := range s.Conditions {
		if !other.Conditions[c] {
			return false
		}
	}
	return true
}

// SortedSources returns the source files in lexical order.
func (s *SourceSet) SortedSources() []string {
	out := make([]string, 0, len(s.Sources))
	for f := range s.Sources {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// SortedConditions returns the conditions in canonical order.
func (s *SourceSet) SortedConditions() []Condition {
	out := make([]Condition, 0, len(s.Conditions))
	for c := range s.Conditions {
		out = append(out, c)
	}
	SortConditions(out)
	return out
}

func (s *SourceSet) String() string {
	return fmt.Sprintf("{sources: %v, conditions: %v}", s.SortedSources(), s.SortedConditions())
}
