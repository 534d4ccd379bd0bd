// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package status

import (
	"sort"
)

// RenameSimilarityThreshold is the minimum Sørensen–Dice trigram
// similarity between a Created and a Deleted item's content for the pair
// to be reported as a Renamed item instead (open question decision: see
// DESIGN.md).
const RenameSimilarityThreshold = 0.5

type renameCandidate struct {
	createdPath string
	deletedPath string
	similarity  float64
}

// DetectRenames looks for Created/Deleted pairs of the same item type whose
// content is similar enough to be considered the same file moved, per
// invariant P9 (rename detection never pairs items of different types).
// Pairing is greedy: candidates are considered in order of highest
// similarity first, tie-broken by lexicographically smallest deleted path,
// and once a path is claimed by a pair it is removed from consideration.
func DetectRenames(m *Manager, localContent, remoteContent ContentFetcher) (*Manager, error) {
	created := m.ByKind(KindCreated).Entries()
	deleted := m.ByKind(KindDeleted).Entries()
	if len(created) == 0 || len(deleted) == 0 {
		return m, nil
	}

	createdBodies := make(map[string][]byte, len(created))
	for _, c := range created {
		body, err := localContent(c.Path)
		if err != nil {
			return nil, err
		}
		createdBodies[c.Path] = body
	}
	deletedBodies := make(map[string][]byte, len(deleted))
	for _, d := range deleted {
		body, err := remoteContent(d.Path)
		if err != nil {
			return nil, err
		}
		deletedBodies[d.Path] = body
	}

	var candidates []renameCandidate
	for _, c := range created {
		for _, d := range deleted {
			if c.Type != d.Type {
				continue
			}
			sim := trigramSimilarity(createdBodies[c.Path], deletedBodies[d.Path])
			if sim >= RenameSimilarityThreshold {
				candidates = append(candidates, renameCandidate{createdPath: c.Path, deletedPath: d.Path, similarity: sim})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].deletedPath < candidates[j].deletedPath
	})

	claimedCreated := make(map[string]bool)
	claimedDeleted := make(map[string]bool)
	out := NewManager()
	for _, s := range m.Entries() {
		if s.Kind != KindCreated && s.Kind != KindDeleted {
			out.Insert(s)
		}
	}

	for _, cand := range candidates {
		if claimedCreated[cand.createdPath] || claimedDeleted[cand.deletedPath] {
			continue
		}
		claimedCreated[cand.createdPath] = true
		claimedDeleted[cand.deletedPath] = true

		var typ = m.byPath[cand.createdPath].Type
		renamed, err := NewRenamed(cand.createdPath, cand.deletedPath, typ, cand.similarity)
		if err != nil {
			return nil, err
		}
		out.Insert(renamed)
	}

	for _, c := range created {
		if !claimedCreated[c.Path] {
			out.Insert(c)
		}
	}
	for _, d := range deleted {
		if !claimedDeleted[d.Path] {
			out.Insert(d)
		}
	}

	return out, nil
}

// trigramSet builds the set of 3-byte shingles of b. Inputs shorter than 3
// bytes produce a single shingle of the whole input so short files can
// still match each other.
func trigramSet(b []byte) map[string]int {
	set := make(map[string]int)
	if len(b) < 3 {
		if len(b) > 0 {
			set[string(b)]++
		}
		return set
	}
	for i := 0; i+3 <= len(b); i++ {
		set[string(b[i:i+3])]++
	}
	return set
}

// trigramSimilarity computes the Sørensen–Dice coefficient between the
// trigram multisets of a and b: 2*|intersection| / (|A| + |B|).
func trigramSimilarity(a, b []byte) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := trigramSet(a)
	setB := trigramSet(b)

	totalA, totalB := 0, 0
	for _, n := range setA {
		totalA += n
	}
	for _, n := range setB {
		totalB += n
	}
	if totalA == 0 || totalB == 0 {
		return 0
	}

	overlap := 0
	for gram, na := range setA {
		if nb, ok := setB[gram]; ok {
			if na < nb {
				overlap += na
			} else {
				overlap += nb
			}
		}
	}
	return 2 * float64(overlap) / float64(totalA+totalB)
}
