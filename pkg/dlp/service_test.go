package dlp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(Config{
		Encrypt: func(value string) (string, error) {
			return "[ENC:" + value + "]", nil
		},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	return eng
}

func blockRule(id string, ets ...types.EntityType) types.PolicyRule {
	return types.PolicyRule{
		ID:          id,
		Name:        id,
		EntityTypes: ets,
		Action:      types.ActionBlock,
		Severity:    types.SeverityHigh,
		Enabled:     true,
	}
}

func TestNewEngineRequiresEncryptor(t *testing.T) {
	_, err := NewEngine(Config{Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestApplyPoliciesBlocksPhoneNumber(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(),
		"Call me at 123-456-7890",
		[]types.PolicyRule{blockRule("phones", types.EntityPhoneNumber)},
		"en")
	require.NoError(t, err)

	assert.True(t, res.Detected)
	assert.True(t, res.PoliciesMatched)
	assert.True(t, res.Blocked)
	assert.True(t, res.AlertRequired)
	assert.Contains(t, res.ActionsTaken, "blocked_by_policy_phones")
	assert.NotEmpty(t, res.RequestID)

	var foundPhone bool
	for _, det := range res.Entities {
		if det.EntityType == types.EntityPhoneNumber {
			foundPhone = true
			assert.Equal(t, "123-456-7890", det.Value)
		}
	}
	assert.True(t, foundPhone)
}

func TestApplyPoliciesEncryptsEmail(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(),
		"Contact: a@b.com",
		[]types.PolicyRule{{
			ID:          "enc-email",
			Name:        "encrypt emails",
			EntityTypes: []types.EntityType{types.EntityEmailAddress},
			Action:      types.ActionEncrypt,
			Severity:    types.SeverityMedium,
			Enabled:     true,
		}},
		"en")
	require.NoError(t, err)

	assert.True(t, res.Detected)
	assert.True(t, res.PoliciesMatched)
	assert.False(t, res.Blocked)
	assert.Equal(t, []string{"encrypted_EMAIL_ADDRESS"}, res.ActionsTaken)
	require.NotNil(t, res.RedactedText)
	assert.Equal(t, "Contact: [ENC:a@b.com]", *res.RedactedText)
}

func TestApplyPoliciesDetectionWithoutPolicyHasNoSideEffects(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(),
		"Contact: a@b.com", nil, "en")
	require.NoError(t, err)

	assert.True(t, res.Detected)
	assert.NotEmpty(t, res.Entities)
	assert.False(t, res.PoliciesMatched)
	assert.False(t, res.Blocked)
	assert.False(t, res.AlertRequired)
	assert.Empty(t, res.ActionsTaken)
	assert.Nil(t, res.RedactedText)
}

func TestAnalyzeResolvesOverlappingCardVariants(t *testing.T) {
	eng := newTestEngine(t)

	final, err := eng.Analyze(context.Background(),
		"Credit Card: 4532-1234-5678-9010", "en")
	require.NoError(t, err)

	var cards []types.Detection
	for _, det := range final {
		if det.EntityType == types.EntityCreditCard {
			cards = append(cards, det)
		}
	}
	require.Len(t, cards, 1)
	assert.Equal(t, 0.85, cards[0].Score)
	assert.Equal(t, "4532-1234-5678-9010", cards[0].Value)
}

func TestApplyPoliciesBlocksScriptInjection(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(),
		"hello <script>alert(1)</script> world",
		[]types.PolicyRule{blockRule("no-scripts", types.EntityMaliciousScript)},
		"en")
	require.NoError(t, err)

	assert.True(t, res.Blocked)
	assert.Contains(t, res.ActionsTaken, "blocked_by_policy_no-scripts")

	var scripts int
	for _, det := range res.Entities {
		if det.EntityType == types.EntityMaliciousScript {
			scripts++
		}
	}
	assert.Equal(t, 1, scripts)
}

func TestApplyPoliciesCleanText(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(),
		"the quick brown fox",
		[]types.PolicyRule{blockRule("phones", types.EntityPhoneNumber)},
		"en")
	require.NoError(t, err)

	assert.False(t, res.Detected)
	assert.Empty(t, res.Entities)
	assert.False(t, res.PoliciesMatched)
	assert.False(t, res.Blocked)
	assert.Empty(t, res.ActionsTaken)
	assert.Nil(t, res.RedactedText)
	assert.NotEmpty(t, res.RequestID)
}

func TestApplyPoliciesEmptyText(t *testing.T) {
	eng := newTestEngine(t)

	res, err := eng.ApplyPolicies(context.Background(), "",
		[]types.PolicyRule{blockRule("phones", types.EntityPhoneNumber)}, "en")
	require.NoError(t, err)

	assert.False(t, res.Detected)
	assert.Empty(t, res.Entities)
}

func TestApplyPoliciesSkipsDisabledRules(t *testing.T) {
	eng := newTestEngine(t)
	rule := blockRule("phones", types.EntityPhoneNumber)
	rule.Enabled = false

	res, err := eng.ApplyPolicies(context.Background(),
		"Call me at 123-456-7890", []types.PolicyRule{rule}, "en")
	require.NoError(t, err)

	assert.True(t, res.Detected)
	assert.False(t, res.PoliciesMatched)
	assert.False(t, res.Blocked)
}

func TestApplyPoliciesRequestIDsAreUnique(t *testing.T) {
	eng := newTestEngine(t)

	first, err := eng.ApplyPolicies(context.Background(), "a@b.com", nil, "en")
	require.NoError(t, err)
	second, err := eng.ApplyPolicies(context.Background(), "a@b.com", nil, "en")
	require.NoError(t, err)

	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestApplyPoliciesConcurrent(t *testing.T) {
	eng := newTestEngine(t)
	rules := []types.PolicyRule{
		blockRule("phones", types.EntityPhoneNumber),
		{
			ID:          "enc-email",
			EntityTypes: []types.EntityType{types.EntityEmailAddress},
			Action:      types.ActionEncrypt,
			Severity:    types.SeverityMedium,
			Enabled:     true,
		},
	}
	texts := []string{
		"Call me at 123-456-7890",
		"Contact: a@b.com",
		"nothing sensitive here",
		"Credit Card: 4532-1234-5678-9010 and a@b.com",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, text := range texts {
				res, err := eng.ApplyPolicies(context.Background(), text, rules, "en")
				assert.NoError(t, err)
				if err == nil {
					assert.NotEmpty(t, res.RequestID)
				}
			}
		}()
	}
	wg.Wait()
}

func TestApplyPoliciesCancelledContext(t *testing.T) {
	eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.ApplyPolicies(ctx, strings.Repeat("a@b.com ", 100),
		[]types.PolicyRule{blockRule("phones", types.EntityPhoneNumber)}, "en")
	assert.Error(t, err)
}

func TestSupportedEntities(t *testing.T) {
	eng := newTestEngine(t)
	supported := eng.SupportedEntities()
	assert.Contains(t, supported, types.EntityEmailAddress)
	assert.Contains(t, supported, types.EntityMaliciousScript)
}

func TestSealDetectionsEncryptsValues(t *testing.T) {
	eng := newTestEngine(t)

	detections := []types.Detection{
		{EntityType: types.EntityEmailAddress, Start: 9, End: 16, Score: 0.95, Value: "a@b.com"},
		{EntityType: types.EntityPhoneNumber, Start: 20, End: 32, Score: 0.8, Value: "123-456-7890"},
	}
	sealed := eng.SealDetections(detections)
	require.Len(t, sealed, 2)

	assert.Equal(t, "[ENC:a@b.com]", sealed[0].Value)
	assert.Equal(t, "[ENC:123-456-7890]", sealed[1].Value)

	// Offsets and types survive, and the input is untouched.
	assert.Equal(t, detections[0].Start, sealed[0].Start)
	assert.Equal(t, detections[0].EntityType, sealed[0].EntityType)
	assert.Equal(t, "a@b.com", detections[0].Value)

	assert.Nil(t, eng.SealDetections(nil))
}

func TestSealDetectionsBlanksValueOnFailure(t *testing.T) {
	eng, err := NewEngine(Config{
		Encrypt: func(value string) (string, error) {
			return "", errors.New("kms unavailable")
		},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	sealed := eng.SealDetections([]types.Detection{
		{EntityType: types.EntityEmailAddress, Start: 0, End: 7, Score: 0.95, Value: "a@b.com"},
	})
	require.Len(t, sealed, 1)
	assert.Empty(t, sealed[0].Value)
	assert.Equal(t, types.EntityEmailAddress, sealed[0].EntityType)
}
