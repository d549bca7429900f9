// Package store provides the in-memory persistence layer for policies,
// alerts, and audit logs. Everything lives under one lock per store and is
// lost on restart.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// PolicyStore keeps policy rules in memory.
type PolicyStore struct {
	mu      sync.RWMutex
	records map[string]types.PolicyRule
}

// NewPolicyStore creates an empty policy store.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{records: make(map[string]types.PolicyRule)}
}

// SeedDefaults installs the starter rule set on first boot: block credit
// cards and SSNs, alert on emails and phone numbers, block script injection.
func (s *PolicyStore) SeedDefaults(ctx context.Context) error {
	defaults := []types.PolicyRule{
		{
			Name:        "Block payment and government identifiers",
			Description: "Credit card numbers and social security numbers must never leave the boundary.",
			EntityTypes: []types.EntityType{types.EntityCreditCard, types.EntityUSSSN, types.EntityIBANCode},
			Action:      types.ActionBlock,
			Severity:    types.SeverityCritical,
			Enabled:     true,
			CreatedBy:   "system",
		},
		{
			Name:        "Alert on personal contact details",
			Description: "Emails and phone numbers raise an alert for review.",
			EntityTypes: []types.EntityType{types.EntityEmailAddress, types.EntityPhoneNumber},
			Action:      types.ActionAlert,
			Severity:    types.SeverityMedium,
			Enabled:     true,
			CreatedBy:   "system",
		},
		{
			Name:        "Block script injection",
			Description: "Text carrying executable script content is rejected.",
			EntityTypes: []types.EntityType{types.EntityMaliciousScript},
			Action:      types.ActionBlock,
			Severity:    types.SeverityCritical,
			Enabled:     true,
			CreatedBy:   "system",
		},
	}
	for _, rule := range defaults {
		if _, err := s.CreatePolicy(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

// ActivePolicies returns the enabled rules, ordered by creation time.
func (s *PolicyStore) ActivePolicies(ctx context.Context) ([]types.PolicyRule, error) {
	all, err := s.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, rule := range all {
		if rule.Enabled {
			active = append(active, rule)
		}
	}
	return active, nil
}

// ListPolicies returns every rule, ordered by creation time.
func (s *PolicyStore) ListPolicies(_ context.Context) ([]types.PolicyRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.PolicyRule, 0, len(s.records))
	for _, rule := range s.records {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetPolicy returns a single rule by ID.
func (s *PolicyStore) GetPolicy(_ context.Context, id string) (types.PolicyRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.records[id]
	if !ok {
		return types.PolicyRule{}, fmt.Errorf("%w: policy %s", ErrNotFound, id)
	}
	return rule, nil
}

// CreatePolicy validates and stores a new rule, assigning its ID and
// timestamps.
func (s *PolicyStore) CreatePolicy(_ context.Context, rule types.PolicyRule) (types.PolicyRule, error) {
	if err := validateRule(rule); err != nil {
		return types.PolicyRule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = uuid.New().String()
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	s.records[rule.ID] = rule
	return rule, nil
}

// UpdatePolicy replaces an existing rule, keeping its identity and creation
// metadata.
func (s *PolicyStore) UpdatePolicy(_ context.Context, rule types.PolicyRule) (types.PolicyRule, error) {
	if err := validateRule(rule); err != nil {
		return types.PolicyRule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rule.ID]
	if !ok {
		return types.PolicyRule{}, fmt.Errorf("%w: policy %s", ErrNotFound, rule.ID)
	}
	rule.CreatedAt = existing.CreatedAt
	rule.CreatedBy = existing.CreatedBy
	rule.UpdatedAt = time.Now().UTC()
	s.records[rule.ID] = rule
	return rule, nil
}

// DeletePolicy removes a rule.
func (s *PolicyStore) DeletePolicy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: policy %s", ErrNotFound, id)
	}
	delete(s.records, id)
	return nil
}

func validateRule(rule types.PolicyRule) error {
	if rule.Name == "" {
		return errors.New("store: policy name is required")
	}
	if len(rule.EntityTypes) == 0 {
		return errors.New("store: policy needs at least one entity type")
	}
	if !rule.Action.Valid() {
		return fmt.Errorf("store: invalid action %q", rule.Action)
	}
	if !rule.Severity.Valid() {
		return fmt.Errorf("store: invalid severity %q", rule.Severity)
	}
	return nil
}

// AlertStore keeps alerts in memory, newest first.
type AlertStore struct {
	mu      sync.RWMutex
	records []types.Alert
}

// NewAlertStore creates an empty alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{}
}

// CreateAlert stores an alert, assigning ID, pending status, and timestamp.
func (s *AlertStore) CreateAlert(_ context.Context, alert types.Alert) (types.Alert, error) {
	if alert.Title == "" {
		return types.Alert{}, errors.New("store: alert title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = uuid.New().String()
	if alert.Status == "" {
		alert.Status = types.AlertStatusPending
	}
	alert.CreatedAt = time.Now().UTC()
	s.records = append(s.records, alert)
	return alert, nil
}

// ListAlerts returns all alerts, newest first.
func (s *AlertStore) ListAlerts(_ context.Context) ([]types.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Alert, len(s.records))
	for i, alert := range s.records {
		out[len(s.records)-1-i] = alert
	}
	return out, nil
}

// LogStore keeps audit log records in memory with a bounded size.
type LogStore struct {
	mu      sync.RWMutex
	records []types.LogRecord
	maxSize int
}

// NewLogStore creates a log store that retains at most maxSize records,
// discarding the oldest when full. maxSize <= 0 means unbounded.
func NewLogStore(maxSize int) *LogStore {
	return &LogStore{maxSize: maxSize}
}

// AppendLog stores one audit record.
func (s *LogStore) AppendLog(_ context.Context, record types.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.New().String()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, record)
	if s.maxSize > 0 && len(s.records) > s.maxSize {
		s.records = s.records[len(s.records)-s.maxSize:]
	}
	return nil
}

// ListLogs returns all retained records, newest first.
func (s *LogStore) ListLogs(_ context.Context) ([]types.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.LogRecord, len(s.records))
	for i, record := range s.records {
		out[len(s.records)-1-i] = record
	}
	return out, nil
}
