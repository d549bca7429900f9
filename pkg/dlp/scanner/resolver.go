package scanner

import (
	"math"
	"sort"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// DefaultScoreProximity is the score difference under which two overlapping
// detections of different types are both kept. Ambiguous entity boundaries
// are preserved rather than guessed.
const DefaultScoreProximity = 0.15

// Resolver reconciles overlapping and duplicate candidate detections into a
// final, non-contradictory set.
type Resolver struct {
	proximity float64
}

// NewResolver creates a resolver with the default score-proximity threshold.
func NewResolver() *Resolver {
	return NewResolverWithProximity(DefaultScoreProximity)
}

// NewResolverWithProximity creates a resolver with a custom threshold.
func NewResolverWithProximity(proximity float64) *Resolver {
	return &Resolver{proximity: proximity}
}

// Resolve deduplicates candidates deterministically. Candidates are sorted
// by start ascending then score descending, then folded into an accumulator:
//
//   - Same-type overlap: the higher score wins; on a tie, the longer span.
//     The loser is replaced in place or discarded.
//   - Cross-type overlap: if the score difference exceeds the proximity
//     threshold the higher-scoring detection wins; otherwise both are kept.
//
// The result preserves accumulator order and contains no two overlapping
// detections of the same entity type.
func (r *Resolver) Resolve(candidates []types.Detection) []types.Detection {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]types.Detection, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Score > sorted[j].Score
	})

	accepted := make([]types.Detection, 0, len(sorted))
	for _, c := range sorted {
		resolved := false
		for i, existing := range accepted {
			if !c.Overlaps(existing) {
				continue
			}
			if c.EntityType == existing.EntityType {
				if c.Score > existing.Score ||
					(c.Score == existing.Score && c.Length() > existing.Length()) {
					accepted[i] = c
				}
				resolved = true
				break
			}
			if math.Abs(c.Score-existing.Score) > r.proximity {
				if c.Score > existing.Score {
					accepted[i] = c
				}
				resolved = true
				break
			}
			// Scores are close; keep both, but keep scanning in case the
			// candidate decisively collides with another accepted span.
		}
		if !resolved {
			accepted = append(accepted, c)
		}
	}
	return accepted
}
