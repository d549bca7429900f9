package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionValidate(t *testing.T) {
	text := "Contact: a@b.com"

	det := Detection{EntityType: EntityEmailAddress, Start: 9, End: 16, Score: 0.9, Value: "a@b.com"}
	require.NoError(t, det.Validate(text))

	bad := det
	bad.End = len(text) + 1
	assert.Error(t, bad.Validate(text))

	bad = det
	bad.Start = det.End
	assert.Error(t, bad.Validate(text))

	bad = det
	bad.Score = 1.5
	assert.Error(t, bad.Validate(text))

	bad = det
	bad.Value = "x@b.com"
	assert.Error(t, bad.Validate(text))
}

func TestDetectionOverlaps(t *testing.T) {
	a := Detection{Start: 0, End: 5}
	b := Detection{Start: 4, End: 8}
	c := Detection{Start: 5, End: 8}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

func TestPolicyRuleCovers(t *testing.T) {
	rule := PolicyRule{
		ID:          "p1",
		EntityTypes: []EntityType{EntityPhoneNumber, EntityEmailAddress},
	}

	assert.True(t, rule.Covers(EntityPhoneNumber))
	assert.False(t, rule.Covers(EntityCreditCard))
}

func TestActionAndSeverityValid(t *testing.T) {
	assert.True(t, ActionBlock.Valid())
	assert.True(t, ActionAnonymize.Valid())
	assert.False(t, PolicyAction("redirect").Valid())

	assert.True(t, SeverityCritical.Valid())
	assert.False(t, Severity("urgent").Valid())
}

func TestSupportedEntityTypesIncludesScripts(t *testing.T) {
	assert.Contains(t, SupportedEntityTypes(), EntityMaliciousScript)
	assert.Contains(t, SupportedEntityTypes(), EntityIBANCode)
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Less(t, Severity("urgent").Rank(), SeverityLow.Rank())
}

func TestHighestSeverity(t *testing.T) {
	applied := []AppliedPolicy{
		{PolicyID: "p1", Severity: SeverityMedium},
		{PolicyID: "p2", Severity: SeverityCritical},
		{PolicyID: "p3", Severity: SeverityHigh},
	}
	assert.Equal(t, SeverityCritical, HighestSeverity(applied))
	assert.Equal(t, SeverityLow, HighestSeverity(nil))
}
