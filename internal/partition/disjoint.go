// Package partition turns the per-configuration source sets produced by the
// scanner into a small disjoint collection and rewrites each collection's
// conditions into the fewest wildcard conditions that cover exactly the same
// build configurations.
package partition

import (
	"github.com/ffbuild/gngen/internal/model"
)

// Disjoint splits the given source sets until no two of them share a file.
// Whenever a pair overlaps, the shared files move into a new set carrying the
// union of both pair conditions, appended after the existing sets, and each
// pair member keeps its place holding only its remaining files. Sets drained
// of all files disappear. The input sets are not modified.
func Disjoint(sets []*model.SourceSet) []*model.SourceSet {
	work := make([]*model.SourceSet, len(sets))
	copy(work, sets)

	for {
		i, j := firstOverlap(work)
		if i < 0 {
			return work
		}

		inter := work[i].Intersect(work[j])
		next := make([]*model.SourceSet, 0, len(work)+1)
		for k, s := range work {
			switch k {
			case i, j:
				if rest := s.Difference(inter); !rest.IsEmpty() {
					next = append(next, rest)
				}
			default:
				next = append(next, s)
			}
		}
		work = append(next, inter)
	}
}

func firstOverlap(sets []*model.SourceSet) (int, int) {
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if !sets[i].Intersect(sets[j]).IsEmpty() {
				return i, j
			}
		}
	}
	return -1, -1
}
