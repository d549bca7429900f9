// Package monitor runs the scheduled email sweep: recent messages are pulled
// from a mail source, run through the policy engine, and violations turn
// into alerts, audit logs, and email blocks.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/crypto"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// Message is one email pulled from the mail source.
type Message struct {
	ID      string
	From    string
	To      string
	Subject string
	Body    string
}

// MailSource supplies the messages to sweep. Implementations talk to IMAP,
// a journaling mailbox, or a gateway spool.
type MailSource interface {
	FetchRecent(ctx context.Context) ([]Message, error)
}

// Analyzer is the slice of the engine the monitor needs.
type Analyzer interface {
	ApplyPolicies(ctx context.Context, text string, activePolicies []types.PolicyRule, language string) (*types.EngineResult, error)
	SealDetections(detections []types.Detection) []types.Detection
}

// Config configures the sweep schedule. An empty SpoolDir disables the
// monitor entirely.
type Config struct {
	Schedule string `yaml:"schedule"`
	Language string `yaml:"language"`
	SpoolDir string `yaml:"spool_dir"`
}

// Stats summarizes one sweep.
type Stats struct {
	Scanned int
	Flagged int
	Blocked int
}

// Monitor owns the cron scheduler and the sweep logic.
type Monitor struct {
	cfg      Config
	engine   Analyzer
	policies dlp.PolicyStore
	alerts   dlp.AlertStore
	logs     dlp.LogStore
	blocker  dlp.BlockingService
	source   MailSource
	logger   zerolog.Logger

	scheduler *cron.Cron
	mu        sync.Mutex
	lastStats Stats
}

// NewMonitor creates an email monitor. Schedule defaults to every five
// minutes.
func NewMonitor(cfg Config, engine Analyzer, policies dlp.PolicyStore, alerts dlp.AlertStore, logs dlp.LogStore, blocker dlp.BlockingService, source MailSource, logger zerolog.Logger) (*Monitor, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 5m"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("monitor: invalid schedule %q: %w", cfg.Schedule, err)
	}

	return &Monitor{
		cfg:       cfg,
		engine:    engine,
		policies:  policies,
		alerts:    alerts,
		logs:      logs,
		blocker:   blocker,
		source:    source,
		logger:    logger.With().Str("component", "email_monitor").Logger(),
		scheduler: cron.New(),
	}, nil
}

// Start registers the sweep job and starts the scheduler.
func (m *Monitor) Start() error {
	_, err := m.scheduler.AddFunc(m.cfg.Schedule, func() {
		if _, err := m.SweepOnce(context.Background()); err != nil {
			m.logger.Error().Err(err).Msg("email sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("monitor: scheduling sweep: %w", err)
	}
	m.scheduler.Start()
	m.logger.Info().Str("schedule", m.cfg.Schedule).Msg("email monitor started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (m *Monitor) Stop() {
	ctx := m.scheduler.Stop()
	<-ctx.Done()
	m.logger.Info().Msg("email monitor stopped")
}

// LastStats returns the result of the most recent sweep.
func (m *Monitor) LastStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastStats
}

// SweepOnce fetches recent messages and applies the active policies to each.
// A failure on one message is logged and does not stop the sweep.
func (m *Monitor) SweepOnce(ctx context.Context) (Stats, error) {
	messages, err := m.source.FetchRecent(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("monitor: fetching messages: %w", err)
	}
	active, err := m.policies.ActivePolicies(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("monitor: loading policies: %w", err)
	}

	var stats Stats
	for _, msg := range messages {
		stats.Scanned++
		if err := m.inspect(ctx, msg, active, &stats); err != nil {
			m.logger.Error().Err(err).Str("message_id", msg.ID).Msg("message inspection failed")
		}
	}

	m.mu.Lock()
	m.lastStats = stats
	m.mu.Unlock()

	m.logger.Info().
		Int("scanned", stats.Scanned).
		Int("flagged", stats.Flagged).
		Int("blocked", stats.Blocked).
		Msg("email sweep complete")
	return stats, nil
}

func (m *Monitor) inspect(ctx context.Context, msg Message, active []types.PolicyRule, stats *Stats) error {
	text := msg.Subject + "\n" + msg.Body
	res, err := m.engine.ApplyPolicies(ctx, text, active, m.cfg.Language)
	if err != nil {
		return err
	}
	if !res.PoliciesMatched {
		if res.Detected {
			return m.logs.AppendLog(ctx, types.LogRecord{
				EventType:  "no_policy_match",
				Message:    "entities detected, no policy matched",
				Level:      "info",
				SourceUser: msg.From,
				Extra: map[string]any{
					"message_id":   msg.ID,
					"request_id":   res.RequestID,
					"text_hash":    crypto.HashText(text),
					"entity_count": len(res.Entities),
				},
			})
		}
		return nil
	}
	stats.Flagged++

	reason := violationReason(res)

	if res.Blocked {
		stats.Blocked++
		if _, err := m.blocker.BlockEmail(ctx, msg.ID, reason); err != nil {
			m.logger.Error().Err(err).Str("message_id", msg.ID).Msg("email block failed")
		}
	}

	if res.AlertRequired {
		alert := types.Alert{
			Title:            fmt.Sprintf("Sensitive data in email %s", msg.ID),
			Description:      reason,
			Severity:         types.HighestSeverity(res.AppliedPolicies),
			SourceUser:       msg.From,
			DetectedEntities: m.engine.SealDetections(res.Entities),
			PolicyID:         res.AppliedPolicies[0].PolicyID,
			ActionTaken:      res.AppliedPolicies[0].Action,
			Blocked:          res.Blocked,
		}
		if _, err := m.alerts.CreateAlert(ctx, alert); err != nil {
			m.logger.Error().Err(err).Str("message_id", msg.ID).Msg("alert creation failed")
		}
	}

	return m.logs.AppendLog(ctx, types.LogRecord{
		EventType:  "email_scan",
		Message:    reason,
		Level:      "warn",
		SourceUser: msg.From,
		Extra: map[string]any{
			"message_id": msg.ID,
			"request_id": res.RequestID,
			"blocked":    res.Blocked,
		},
	})
}

func violationReason(res *types.EngineResult) string {
	names := make([]string, 0, len(res.AppliedPolicies))
	for _, ap := range res.AppliedPolicies {
		names = append(names, ap.Name)
	}
	return fmt.Sprintf("matched policies: %s", strings.Join(names, ", "))
}
