package scanner

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/patterns"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// EntityRecognizer is an optional external NER engine. Implementations must
// be safe for concurrent use; any error from Analyze makes the detector fall
// back to the regex cascade. (Defined here to avoid an import cycle with the
// root dlp package.)
type EntityRecognizer interface {
	Analyze(ctx context.Context, text, language string, entityTypes []types.EntityType) ([]types.Detection, error)
}

// Detector runs the pattern library (and the external recognizer, when one
// is configured) over input text, producing raw candidate detections.
// Detectors hold no per-call state and may be shared across goroutines.
type Detector struct {
	lib        *patterns.Library
	recognizer EntityRecognizer
	logger     zerolog.Logger
}

// NewDetector creates a detector over the given library. recognizer may be
// nil for the regex-only configuration.
func NewDetector(lib *patterns.Library, recognizer EntityRecognizer, logger zerolog.Logger) *Detector {
	return &Detector{
		lib:        lib,
		recognizer: recognizer,
		logger:     logger.With().Str("component", "detector").Logger(),
	}
}

// Detect scans text and returns the flat list of raw candidate detections.
// Malicious-script signatures are always scanned. Sensitive entities come
// from the recognizer when it is configured and healthy, otherwise from the
// regex cascade. Overlaps and duplicates are resolved later, not here.
func (d *Detector) Detect(ctx context.Context, text, language string) ([]types.Detection, error) {
	if text == "" {
		return nil, nil
	}

	detections, err := d.scanPatterns(ctx, text, d.lib.ScriptPatterns())
	if err != nil {
		return nil, err
	}
	if n := len(detections); n > 0 {
		d.logger.Warn().Int("count", n).Msg("malicious script patterns detected")
	}

	if d.recognizer != nil {
		recognized, rerr := d.recognizer.Analyze(ctx, text, language, types.SupportedEntityTypes())
		if rerr == nil && validSpans(text, recognized) {
			return append(detections, recognized...), nil
		}
		if rerr != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Expected degradation path, not an error for the caller.
		d.logger.Debug().AnErr("recognizer_error", rerr).Msg("recognizer unavailable, using regex cascade")
	}

	sensitive, err := d.scanPatterns(ctx, text, d.lib.SensitivePatterns())
	if err != nil {
		return nil, err
	}
	return append(detections, sensitive...), nil
}

// scanPatterns runs one pattern family over the text.
func (d *Detector) scanPatterns(ctx context.Context, text string, pats []patterns.Pattern) ([]types.Detection, error) {
	var out []types.Detection
	for _, p := range pats {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if p.Labeled {
			for _, idx := range p.Regexp().FindAllStringSubmatchIndex(text, -1) {
				start, end := idx[2], idx[3]
				if start < 0 || start >= end {
					continue
				}
				if det, ok := d.candidate(text, p, start, end); ok {
					out = append(out, det)
				}
			}
			continue
		}
		for _, idx := range p.Regexp().FindAllStringIndex(text, -1) {
			if det, ok := d.candidate(text, p, idx[0], idx[1]); ok {
				out = append(out, det)
			}
		}
	}
	return out, nil
}

func (d *Detector) candidate(text string, p patterns.Pattern, start, end int) (types.Detection, bool) {
	value := text[start:end]
	if p.Excluded(value, contextWindow(text, start, end, p.ContextWindow)) {
		return types.Detection{}, false
	}
	return types.Detection{
		EntityType: p.Type,
		Start:      start,
		End:        end,
		Score:      p.Score,
		Value:      value,
	}, true
}

// validSpans rejects recognizer output with offsets that do not address the
// analyzed text; bad output degrades to the regex cascade.
func validSpans(text string, dets []types.Detection) bool {
	for i, det := range dets {
		if det.Start < 0 || det.End > len(text) || det.Start >= det.End {
			return false
		}
		if dets[i].Value == "" {
			dets[i].Value = text[det.Start:det.End]
		}
	}
	return true
}

func contextWindow(text string, start, end, radius int) string {
	if radius <= 0 {
		return ""
	}
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
