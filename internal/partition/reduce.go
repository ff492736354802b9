package partition

import (
	"sort"

	"github.com/ffbuild/gngen/internal/model"
	"github.com/ffbuild/gngen/internal/support"
)

// conditionReduction is one applicable rewrite: a wildcard condition and the
// concrete conditions of the set it replaces.
type conditionReduction struct {
	condition model.Condition
	matches   map[model.Condition]bool
}

// ReduceConditions rewrites each set's conditions into fewer wildcard
// conditions covering exactly the same build configurations. Each rewrite
// wildcards a single attribute of a condition the set already holds, and is
// applied only when the conditions it matches are precisely the expansion of
// the wildcard condition. Running the reduction again changes nothing, since
// matching compares attribute values literally and a wildcard condition never
// equals its own concrete expansion.
func ReduceConditions(sets []*model.SourceSet) {
	for _, s := range sets {
		reduceSet(s)
	}
}

func reduceSet(s *model.SourceSet) {
	candidates := map[model.Condition]map[model.Condition]bool{}
	for _, cond := range s.SortedConditions() {
		for _, attr := range model.AllAttrs {
			candidate := cond.WithAttr(attr, model.Wildcard)
			if candidate == cond {
				continue
			}
			if _, tried := candidates[candidate]; tried {
				continue
			}
			matches := MatchingConditions(s.Conditions, candidate)
			if coversExactly(matches, support.Expand(candidate)) {
				candidates[candidate] = matches
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	reductions := make([]conditionReduction, 0, len(candidates))
	for cond, matches := range candidates {
		reductions = append(reductions, conditionReduction{cond, matches})
	}
	sort.Slice(reductions, func(i, j int) bool {
		return reductions[i].condition.Less(reductions[j].condition)
	})

	// Drop any reduction another one makes redundant. A reduction whose
	// matches are a strict subset of another's is absorbed by it, and of two
	// covering the same matches only the first survives.
	kept := reductions[:0:0]
	for i, r := range reductions {
		redundant := false
		for j, o := range reductions {
			if j == i || !subsetOf(r.matches, o.matches) {
				continue
			}
			if len(r.matches) < len(o.matches) || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, r)
		}
	}

	for _, r := range kept {
		for m := range r.matches {
			delete(s.Conditions, m)
		}
	}
	for _, r := range kept {
		s.Conditions[r.condition] = true
	}
}

// MatchingConditions returns the conditions whose attributes equal the
// candidate's on every attribute the candidate pins down. Comparison is
// literal: a wildcard attribute in a condition only matches a wildcard in the
// candidate. A fully wildcard candidate matches every condition.
func MatchingConditions(conditions map[model.Condition]bool, candidate model.Condition) map[model.Condition]bool {
	matches := map[model.Condition]bool{}
	for cond := range conditions {
		ok := true
		for _, attr := range model.AllAttrs {
			if want := candidate.Attr(attr); want != model.Wildcard && cond.Attr(attr) != want {
				ok = false
				break
			}
		}
		if ok {
			matches[cond] = true
		}
	}
	return matches
}

func coversExactly(matches map[model.Condition]bool, expansion []model.Condition) bool {
	if len(matches) != len(expansion) {
		return false
	}
	for _, e := range expansion {
		if !matches[e] {
			return false
		}
	}
	return true
}

func subsetOf(a, b map[model.Condition]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for c := range a {
		if !b[c] {
			return false
		}
	}
	return true
}
