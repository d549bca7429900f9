package patterns

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// ErrInvalidPattern is returned when a pattern spec fails to compile at
// construction time. Malformed patterns are never discovered mid-scan.
var ErrInvalidPattern = errors.New("invalid pattern")

// Category splits the catalog into its two families.
type Category string

const (
	// CategoryScript patterns detect script-injection signatures and are
	// always scanned, regardless of the NER configuration.
	CategoryScript Category = "script"
	// CategorySensitive patterns detect sensitive entities and form the
	// regex cascade used when no external recognizer is available.
	CategorySensitive Category = "sensitive"
)

// Spec describes a single detection pattern before compilation.
type Spec struct {
	// Name is a short identifier for the pattern, unique within the catalog.
	Name string
	// Type is the entity type a match is reported as.
	Type types.EntityType
	// Category selects the script or sensitive family.
	Category Category
	// Expr is the regular expression source.
	Expr string
	// Score is the fixed confidence assigned to every match. Labeled
	// variants carry higher scores than bare ones.
	Score float64
	// Labeled marks patterns of the form "<Label>: <value>" whose reported
	// span is capture group 1 rather than the full match.
	Labeled bool
	// ExcludeValue suppresses a match when this expression matches the
	// candidate value. Used where a broad pattern shadows a more specific
	// one, e.g. bare phone numbers that are really credit cards.
	ExcludeValue string
	// ExcludeContext suppresses a match when this expression matches the
	// text within ContextWindow bytes around the candidate span.
	ExcludeContext string
	// ContextWindow is the byte radius used with ExcludeContext.
	ContextWindow int
	// Description is a human-readable summary used in pattern listings.
	Description string
}

// Pattern is a compiled catalog entry.
type Pattern struct {
	Spec
	re           *regexp.Regexp
	excludeValue *regexp.Regexp
	excludeCtx   *regexp.Regexp
}

// Regexp exposes the compiled expression.
func (p Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// Excluded reports whether a candidate match should be suppressed, given its
// value and the surrounding context window.
func (p Pattern) Excluded(value, context string) bool {
	if p.excludeValue != nil && p.excludeValue.MatchString(value) {
		return true
	}
	if p.excludeCtx != nil && p.excludeCtx.MatchString(context) {
		return true
	}
	return false
}

// Library holds the ordered, immutable pattern catalog. It carries no
// mutable state and is safe for concurrent use.
type Library struct {
	script    []Pattern
	sensitive []Pattern
}

// NewLibrary compiles the built-in catalog.
func NewLibrary() (*Library, error) {
	return NewLibraryFromSpecs(DefaultSpecs())
}

// NewLibraryFromSpecs compiles an arbitrary catalog. Construction fails on
// the first malformed expression.
func NewLibraryFromSpecs(specs []Spec) (*Library, error) {
	lib := &Library{}
	for _, spec := range specs {
		if spec.Expr == "" {
			return nil, fmt.Errorf("%w: pattern %q has empty expression", ErrInvalidPattern, spec.Name)
		}
		if spec.Score < 0 || spec.Score > 1 {
			return nil, fmt.Errorf("%w: pattern %q has score %.3f outside [0,1]", ErrInvalidPattern, spec.Name, spec.Score)
		}
		re, err := regexp.Compile(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidPattern, spec.Name, err)
		}
		if spec.Labeled && re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: labeled pattern %q has no capture group", ErrInvalidPattern, spec.Name)
		}
		p := Pattern{Spec: spec, re: re}
		if spec.ExcludeValue != "" {
			p.excludeValue, err = regexp.Compile(spec.ExcludeValue)
			if err != nil {
				return nil, fmt.Errorf("%w: pattern %q exclude-value: %v", ErrInvalidPattern, spec.Name, err)
			}
		}
		if spec.ExcludeContext != "" {
			p.excludeCtx, err = regexp.Compile(spec.ExcludeContext)
			if err != nil {
				return nil, fmt.Errorf("%w: pattern %q exclude-context: %v", ErrInvalidPattern, spec.Name, err)
			}
		}
		switch spec.Category {
		case CategoryScript:
			lib.script = append(lib.script, p)
		case CategorySensitive:
			lib.sensitive = append(lib.sensitive, p)
		default:
			return nil, fmt.Errorf("%w: pattern %q has unknown category %q", ErrInvalidPattern, spec.Name, spec.Category)
		}
	}
	return lib, nil
}

// ScriptPatterns returns the malicious-script signature family.
func (l *Library) ScriptPatterns() []Pattern {
	return l.script
}

// SensitivePatterns returns the sensitive-entity signature family.
func (l *Library) SensitivePatterns() []Pattern {
	return l.sensitive
}

// Len returns the total number of compiled patterns.
func (l *Library) Len() int {
	return len(l.script) + len(l.sensitive)
}
