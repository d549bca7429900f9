package policy

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// Encryptor is the injected value-encryption primitive. The core never
// implements the cryptography itself.
type Encryptor func(value string) (string, error)

// Outcome aggregates the per-policy actions of one call.
type Outcome struct {
	ActionsTaken  []string
	Blocked       bool
	AlertRequired bool
	RedactedText  *string
}

// ActionResolver folds applied policies into a single outcome and computes
// position-safe redacted text for encrypt actions.
type ActionResolver struct {
	encrypt Encryptor
	logger  zerolog.Logger
}

// NewActionResolver creates an action resolver around the injected
// encryption primitive.
func NewActionResolver(encrypt Encryptor, logger zerolog.Logger) *ActionResolver {
	return &ActionResolver{
		encrypt: encrypt,
		logger:  logger.With().Str("component", "action_resolver").Logger(),
	}
}

type redactedSpan struct {
	det   types.Detection
	token string
}

// Resolve processes applied policies in order. A block action sets both
// blocked and alert_required; an alert action requests at most one alert per
// call; encrypt actions tokenize every relevant detection and rewrite the
// original text in descending start-offset order so replacements never shift
// unprocessed spans. If no policies matched, every output is false or empty
// and RedactedText is nil.
func (r *ActionResolver) Resolve(applied []types.AppliedPolicy, text string) Outcome {
	out := Outcome{ActionsTaken: []string{}}
	if len(applied) == 0 {
		return out
	}

	var spans []redactedSpan
	claimed := make(map[int]struct{})

	for _, ap := range applied {
		switch ap.Action {
		case types.ActionBlock:
			out.Blocked = true
			out.AlertRequired = true
			out.ActionsTaken = append(out.ActionsTaken, fmt.Sprintf("blocked_by_policy_%s", ap.PolicyID))

		case types.ActionAlert:
			if !out.AlertRequired {
				out.AlertRequired = true
				out.ActionsTaken = append(out.ActionsTaken, "alert_created")
			}

		case types.ActionEncrypt:
			for _, det := range ap.Relevant {
				token, err := r.encrypt(det.Value)
				if err != nil {
					r.logger.Error().Err(err).
						Str("entity_type", string(det.EntityType)).
						Msg("encryption failed, leaving span unredacted")
					continue
				}
				out.ActionsTaken = append(out.ActionsTaken, fmt.Sprintf("encrypted_%s", det.EntityType))
				if _, dup := claimed[det.Start]; dup {
					continue
				}
				claimed[det.Start] = struct{}{}
				spans = append(spans, redactedSpan{det: det, token: token})
			}

		case types.ActionAnonymize:
			// Reserved action; passthrough in this version.

		default:
			r.logger.Warn().Str("policy_id", ap.PolicyID).
				Str("action", string(ap.Action)).Msg("unknown policy action ignored")
		}
	}

	if len(spans) > 0 {
		redacted := r.redact(text, spans)
		out.RedactedText = &redacted
	}
	return out
}

// redact replaces each encrypted span in the original text. Spans are
// processed in descending start order, so earlier replacements never shift
// the offsets of spans not yet processed. A span whose text no longer equals
// the recorded value is skipped rather than corrupting the string.
func (r *ActionResolver) redact(text string, spans []redactedSpan) string {
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].det.Start > spans[j].det.Start
	})

	redacted := text
	replacedFrom := len(text) + 1
	for _, s := range spans {
		det := s.det
		if det.Start < 0 || det.End > len(text) || det.Start >= det.End {
			r.logger.Error().Int("start", det.Start).Int("end", det.End).
				Msg("redaction span out of range, skipping")
			continue
		}
		if det.End > replacedFrom {
			r.logger.Warn().Str("entity_type", string(det.EntityType)).
				Msg("redaction span overlaps an already replaced span, skipping")
			continue
		}
		if text[det.Start:det.End] != det.Value {
			r.logger.Warn().Str("entity_type", string(det.EntityType)).
				Int("start", det.Start).Int("end", det.End).
				Msg("redaction span mismatch, skipping replacement")
			continue
		}
		redacted = redacted[:det.Start] + s.token + redacted[det.End:]
		replacedFrom = det.Start
	}
	return redacted
}
