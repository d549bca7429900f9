package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

func TestNewLibraryCompilesBuiltinCatalog(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	assert.NotEmpty(t, lib.ScriptPatterns())
	assert.NotEmpty(t, lib.SensitivePatterns())
	assert.Equal(t, len(lib.ScriptPatterns())+len(lib.SensitivePatterns()), lib.Len())

	for _, p := range lib.ScriptPatterns() {
		assert.Equal(t, types.EntityMaliciousScript, p.Type, "pattern %s", p.Name)
	}
}

func TestNewLibraryRejectsMalformedPattern(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:     "broken",
		Type:     types.EntityPhoneNumber,
		Category: CategorySensitive,
		Expr:     `(\d+`,
		Score:    0.5,
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewLibraryRejectsEmptyExpression(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:     "empty",
		Type:     types.EntityPhoneNumber,
		Category: CategorySensitive,
		Score:    0.5,
	}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewLibraryRejectsScoreOutOfRange(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:     "overconfident",
		Type:     types.EntityPhoneNumber,
		Category: CategorySensitive,
		Expr:     `\d+`,
		Score:    1.2,
	}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewLibraryRejectsLabeledPatternWithoutGroup(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:     "labeled_no_group",
		Type:     types.EntityPhoneNumber,
		Category: CategorySensitive,
		Expr:     `Phone:\s*\d+`,
		Score:    0.9,
		Labeled:  true,
	}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewLibraryRejectsUnknownCategory(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:     "uncategorized",
		Type:     types.EntityPhoneNumber,
		Category: Category("misc"),
		Expr:     `\d+`,
		Score:    0.5,
	}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewLibraryRejectsMalformedExclusions(t *testing.T) {
	_, err := NewLibraryFromSpecs([]Spec{{
		Name:         "bad_exclude",
		Type:         types.EntityPhoneNumber,
		Category:     CategorySensitive,
		Expr:         `\d+`,
		Score:        0.5,
		ExcludeValue: `([`,
	}})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestPatternExcluded(t *testing.T) {
	lib, err := NewLibraryFromSpecs([]Spec{{
		Name:           "digits",
		Type:           types.EntityPhoneNumber,
		Category:       CategorySensitive,
		Expr:           `\d+`,
		Score:          0.5,
		ExcludeValue:   `^0+$`,
		ExcludeContext: `@`,
		ContextWindow:  5,
	}})
	require.NoError(t, err)
	p := lib.SensitivePatterns()[0]

	assert.True(t, p.Excluded("0000", "plain context"))
	assert.True(t, p.Excluded("1234", "id@host"))
	assert.False(t, p.Excluded("1234", "plain context"))
}
