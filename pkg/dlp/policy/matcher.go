package policy

import (
	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// Matcher determines which policy rules are relevant to a final detection
// set. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	logger zerolog.Logger
}

// NewMatcher creates a policy matcher.
func NewMatcher(logger zerolog.Logger) *Matcher {
	return &Matcher{logger: logger.With().Str("component", "policy_matcher").Logger()}
}

// Match returns one AppliedPolicy per rule that covers at least one
// detection. Rules with no relevant detections are skipped entirely and
// contribute to no side effect. A malformed rule (empty entity_types) is
// skipped for that rule only.
func (m *Matcher) Match(detections []types.Detection, rules []types.PolicyRule) []types.AppliedPolicy {
	if len(detections) == 0 || len(rules) == 0 {
		return nil
	}

	var applied []types.AppliedPolicy
	for _, rule := range rules {
		if len(rule.EntityTypes) == 0 {
			m.logger.Warn().Str("policy_id", rule.ID).Msg("skipping policy with empty entity types")
			continue
		}
		if !rule.Enabled {
			continue
		}

		var relevant []types.Detection
		for _, det := range detections {
			if rule.Covers(det.EntityType) {
				relevant = append(relevant, det)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		matched := make([]types.EntityType, 0, len(relevant))
		seen := make(map[types.EntityType]struct{}, len(relevant))
		for _, det := range relevant {
			if _, ok := seen[det.EntityType]; ok {
				continue
			}
			seen[det.EntityType] = struct{}{}
			matched = append(matched, det.EntityType)
		}

		applied = append(applied, types.AppliedPolicy{
			PolicyID:        rule.ID,
			Name:            rule.Name,
			Action:          rule.Action,
			Severity:        rule.Severity,
			EntityTypes:     rule.EntityTypes,
			MatchedEntities: matched,
			MatchedCount:    len(relevant),
			Relevant:        relevant,
		})
	}
	return applied
}
