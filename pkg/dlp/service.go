package dlp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/patterns"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/policy"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/scanner"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

const tracerName = "github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp"

// Config assembles an Engine. Library defaults to the built-in catalog;
// Recognizer may be nil for the regex-only configuration; Encrypt is
// required because encrypt policies depend on it.
type Config struct {
	Library        *patterns.Library
	Recognizer     EntityRecognizer
	Encrypt        Encryptor
	ScoreProximity float64
	Logger         zerolog.Logger
}

// Engine is the policy-application facade. It is stateless across calls:
// each invocation operates only on its input text and the caller-supplied
// policy snapshot, so a single Engine is safe for concurrent use.
type Engine struct {
	detector *scanner.Detector
	resolver *scanner.Resolver
	matcher  *policy.Matcher
	actions  *policy.ActionResolver
	encrypt  Encryptor
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewEngine creates an engine from the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Encrypt == nil {
		return nil, errors.New("dlp: encryptor is required")
	}
	lib := cfg.Library
	if lib == nil {
		var err error
		lib, err = patterns.NewLibrary()
		if err != nil {
			return nil, fmt.Errorf("dlp: building pattern library: %w", err)
		}
	}
	proximity := cfg.ScoreProximity
	if proximity <= 0 {
		proximity = scanner.DefaultScoreProximity
	}

	return &Engine{
		detector: scanner.NewDetector(lib, cfg.Recognizer, cfg.Logger),
		resolver: scanner.NewResolverWithProximity(proximity),
		matcher:  policy.NewMatcher(cfg.Logger),
		actions:  policy.NewActionResolver(cfg.Encrypt, cfg.Logger),
		encrypt:  cfg.Encrypt,
		logger:   cfg.Logger.With().Str("component", "dlp_engine").Logger(),
		tracer:   otel.Tracer(tracerName),
	}, nil
}

// Analyze detects and resolves entities without applying any policies.
func (e *Engine) Analyze(ctx context.Context, text, language string) ([]types.Detection, error) {
	raw, err := e.detector.Detect(ctx, text, language)
	if err != nil {
		return nil, err
	}
	final := e.resolver.Resolve(raw)
	for _, det := range final {
		if verr := det.Validate(text); verr != nil {
			return nil, fmt.Errorf("dlp: inconsistent detection: %w", verr)
		}
	}
	return final, nil
}

// ApplyPolicies analyzes text and evaluates the caller-supplied active
// policies against the findings. The returned result is complete and
// consistent, or an error is returned and no side effects are assumed; the
// caller owns alert/log persistence and any external blocking call.
func (e *Engine) ApplyPolicies(ctx context.Context, text string, activePolicies []types.PolicyRule, language string) (*types.EngineResult, error) {
	ctx, span := e.tracer.Start(ctx, "dlp.apply_policies",
		trace.WithAttributes(
			attribute.Int("dlp.text_length", len(text)),
			attribute.Int("dlp.active_policies", len(activePolicies)),
		))
	defer span.End()

	result := &types.EngineResult{
		RequestID:       uuid.New().String(),
		Entities:        []types.Detection{},
		ActionsTaken:    []string{},
		AppliedPolicies: []types.AppliedPolicy{},
		Timestamp:       time.Now().UTC(),
	}

	final, err := e.Analyze(ctx, text, language)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("dlp.entities", len(final)))

	if len(final) == 0 {
		return result, nil
	}
	result.Detected = true
	result.Entities = final

	applied := e.matcher.Match(final, activePolicies)
	if len(applied) == 0 {
		e.logger.Info().
			Str("request_id", result.RequestID).
			Int("entities", len(final)).
			Msg("entities detected, no policy matched")
		return result, nil
	}

	result.PoliciesMatched = true
	result.AppliedPolicies = applied

	outcome := e.actions.Resolve(applied, text)
	result.ActionsTaken = outcome.ActionsTaken
	result.Blocked = outcome.Blocked
	result.AlertRequired = outcome.AlertRequired
	result.RedactedText = outcome.RedactedText

	span.SetAttributes(
		attribute.Int("dlp.policies_matched", len(applied)),
		attribute.Bool("dlp.blocked", result.Blocked),
	)
	e.logger.Info().
		Str("request_id", result.RequestID).
		Int("entities", len(final)).
		Int("policies_matched", len(applied)).
		Bool("blocked", result.Blocked).
		Msg("policies applied")

	return result, nil
}

// SealDetections returns a copy of the detections with each matched value
// replaced by its encrypted token, so findings can be persisted without
// storing the sensitive text in the clear. A value that fails to encrypt is
// blanked rather than kept.
func (e *Engine) SealDetections(detections []types.Detection) []types.Detection {
	if len(detections) == 0 {
		return nil
	}
	sealed := make([]types.Detection, len(detections))
	copy(sealed, detections)
	for i := range sealed {
		token, err := e.encrypt(sealed[i].Value)
		if err != nil {
			e.logger.Error().Err(err).
				Str("entity_type", string(sealed[i].EntityType)).
				Msg("sealing detection value failed")
			sealed[i].Value = ""
			continue
		}
		sealed[i].Value = token
	}
	return sealed
}

// SupportedEntities returns every entity type the engine can report.
func (e *Engine) SupportedEntities() []types.EntityType {
	return types.SupportedEntityTypes()
}
