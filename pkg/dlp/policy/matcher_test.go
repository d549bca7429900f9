package policy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

func TestMatchSkipsRuleWithNoRelevantDetections(t *testing.T) {
	m := NewMatcher(zerolog.Nop())

	applied := m.Match(
		[]types.Detection{{EntityType: types.EntityEmailAddress, Start: 0, End: 7, Score: 0.9}},
		[]types.PolicyRule{{
			ID:          "p1",
			Name:        "card policy",
			EntityTypes: []types.EntityType{types.EntityCreditCard},
			Action:      types.ActionBlock,
			Severity:    types.SeverityHigh,
			Enabled:     true,
		}},
	)

	assert.Empty(t, applied)
}

func TestMatchCountsAllRelevantDetections(t *testing.T) {
	m := NewMatcher(zerolog.Nop())

	applied := m.Match(
		[]types.Detection{
			{EntityType: types.EntityEmailAddress, Start: 0, End: 7, Score: 0.9},
			{EntityType: types.EntityEmailAddress, Start: 10, End: 17, Score: 0.9},
			{EntityType: types.EntityPhoneNumber, Start: 20, End: 32, Score: 0.8},
		},
		[]types.PolicyRule{{
			ID:          "p1",
			Name:        "pii policy",
			EntityTypes: []types.EntityType{types.EntityEmailAddress, types.EntityPhoneNumber},
			Action:      types.ActionAlert,
			Severity:    types.SeverityMedium,
			Enabled:     true,
		}},
	)

	require.Len(t, applied, 1)
	assert.Equal(t, 3, applied[0].MatchedCount)
	assert.ElementsMatch(t,
		[]types.EntityType{types.EntityEmailAddress, types.EntityPhoneNumber},
		applied[0].MatchedEntities)
	assert.Len(t, applied[0].Relevant, 3)
}

func TestMatchSkipsDisabledRule(t *testing.T) {
	m := NewMatcher(zerolog.Nop())

	applied := m.Match(
		[]types.Detection{{EntityType: types.EntityCreditCard, Start: 0, End: 19, Score: 0.85}},
		[]types.PolicyRule{{
			ID:          "p1",
			EntityTypes: []types.EntityType{types.EntityCreditCard},
			Action:      types.ActionBlock,
			Severity:    types.SeverityHigh,
			Enabled:     false,
		}},
	)

	assert.Empty(t, applied)
}

func TestMatchSkipsRuleWithEmptyEntityTypes(t *testing.T) {
	m := NewMatcher(zerolog.Nop())

	applied := m.Match(
		[]types.Detection{{EntityType: types.EntityCreditCard, Start: 0, End: 19, Score: 0.85}},
		[]types.PolicyRule{
			{ID: "broken", Action: types.ActionBlock, Severity: types.SeverityHigh, Enabled: true},
			{
				ID:          "p2",
				EntityTypes: []types.EntityType{types.EntityCreditCard},
				Action:      types.ActionAlert,
				Severity:    types.SeverityHigh,
				Enabled:     true,
			},
		},
	)

	require.Len(t, applied, 1)
	assert.Equal(t, "p2", applied[0].PolicyID)
}

func TestMatchMultipleRulesAllApply(t *testing.T) {
	m := NewMatcher(zerolog.Nop())

	applied := m.Match(
		[]types.Detection{
			{EntityType: types.EntityCreditCard, Start: 0, End: 19, Score: 0.85},
			{EntityType: types.EntityEmailAddress, Start: 25, End: 32, Score: 0.9},
		},
		[]types.PolicyRule{
			{
				ID:          "block-cards",
				EntityTypes: []types.EntityType{types.EntityCreditCard},
				Action:      types.ActionBlock,
				Severity:    types.SeverityCritical,
				Enabled:     true,
			},
			{
				ID:          "alert-email",
				EntityTypes: []types.EntityType{types.EntityEmailAddress},
				Action:      types.ActionAlert,
				Severity:    types.SeverityLow,
				Enabled:     true,
			},
		},
	)

	require.Len(t, applied, 2)
	assert.Equal(t, "block-cards", applied[0].PolicyID)
	assert.Equal(t, "alert-email", applied[1].PolicyID)
}

func TestMatchNoDetections(t *testing.T) {
	m := NewMatcher(zerolog.Nop())
	assert.Nil(t, m.Match(nil, []types.PolicyRule{{ID: "p1", Enabled: true}}))
}
