package linker

import "fmt"

// ConflictResolution records one group of overlapping candidates and the
// winner chosen from it. Winner is nil only when the group was empty,
// which Resolve never produces.
type ConflictResolution struct {
	Group  []Candidate `json:"group"`
	Winner *Candidate  `json:"winner"`
	Reason string      `json:"reason"`
}

// score implements the deterministic tie-break: longer matches dominate,
// an exact match carrying no alias gets a fixed bonus, and confidence
// breaks remaining ties.
func score(c Candidate) float64 {
	s := float64(len(c.Text)) * 10
	if c.SuggestedAlias == "" {
		s += 50
	}
	return s + c.Confidence*20
}

// ResolveConflicts groups candidates whose spans overlap on the same line
// and picks one winner per group. Candidates that overlap nothing are
// returned unchanged in kept; resolutions describes every overlap group.
// Given stable input ordering the outcome is deterministic.
func ResolveConflicts(candidates []Candidate) (kept []Candidate, resolutions []ConflictResolution) {
	grouped := make(map[int]bool, len(candidates))

	for i := range candidates {
		if grouped[i] {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(candidates); j++ {
			if grouped[j] {
				continue
			}
			for _, g := range group {
				if candidates[g].Position.Overlaps(candidates[j].Position) {
					group = append(group, j)
					break
				}
			}
		}
		if len(group) == 1 {
			kept = append(kept, candidates[i])
			continue
		}

		best := group[0]
		for _, g := range group[1:] {
			grouped[g] = true
			if score(candidates[g]) > score(candidates[best]) {
				best = g
			}
		}
		grouped[i] = true

		members := make([]Candidate, len(group))
		for k, g := range group {
			members[k] = candidates[g]
		}
		winner := candidates[best]
		kept = append(kept, winner)
		resolutions = append(resolutions, ConflictResolution{
			Group:  members,
			Winner: &winner,
			Reason: fmt.Sprintf("highest score %.1f for %q among %d overlapping candidates", score(winner), winner.Text, len(group)),
		})
	}

	return kept, resolutions
}
