package types

import (
	"fmt"
	"time"
)

// EntityType identifies a category of sensitive or malicious content.
type EntityType string

const (
	EntityPhoneNumber     EntityType = "PHONE_NUMBER"
	EntityEmailAddress    EntityType = "EMAIL_ADDRESS"
	EntityCreditCard      EntityType = "CREDIT_CARD"
	EntityIPAddress       EntityType = "IP_ADDRESS"
	EntityIBANCode        EntityType = "IBAN_CODE"
	EntityUSSSN           EntityType = "US_SSN"
	EntityDateTime        EntityType = "DATE_TIME"
	EntityAddress         EntityType = "ADDRESS"
	EntityOrganization    EntityType = "ORGANIZATION"
	EntityPerson          EntityType = "PERSON"
	EntityLocation        EntityType = "LOCATION"
	EntityMaliciousScript EntityType = "MALICIOUS_SCRIPT"
)

// SupportedEntityTypes lists every entity type the engine can report.
func SupportedEntityTypes() []EntityType {
	return []EntityType{
		EntityPhoneNumber,
		EntityEmailAddress,
		EntityCreditCard,
		EntityIPAddress,
		EntityIBANCode,
		EntityUSSSN,
		EntityDateTime,
		EntityAddress,
		EntityOrganization,
		EntityPerson,
		EntityLocation,
		EntityMaliciousScript,
	}
}

// PolicyAction is the action a policy takes when one of its entity types is detected.
type PolicyAction string

const (
	ActionBlock     PolicyAction = "block"
	ActionAlert     PolicyAction = "alert"
	ActionEncrypt   PolicyAction = "encrypt"
	ActionAnonymize PolicyAction = "anonymize"
)

// Valid reports whether the action is one of the known policy actions.
func (a PolicyAction) Valid() bool {
	switch a {
	case ActionBlock, ActionAlert, ActionEncrypt, ActionAnonymize:
		return true
	}
	return false
}

// Severity represents the severity assigned to a policy violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities from low (1) to critical (4). Unknown severities
// rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// HighestSeverity returns the most severe level among the applied policies,
// defaulting to low.
func HighestSeverity(applied []AppliedPolicy) Severity {
	highest := SeverityLow
	for _, ap := range applied {
		if ap.Severity.Rank() > highest.Rank() {
			highest = ap.Severity
		}
	}
	return highest
}

// Detection is a typed span of text identified as sensitive or malicious.
// Start and End are byte offsets into the analyzed text with
// 0 <= Start < End <= len(text).
type Detection struct {
	EntityType EntityType `json:"entity_type"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Score      float64    `json:"score"`
	Value      string     `json:"value"`
}

// Validate checks the detection's span and score against the analyzed text.
func (d Detection) Validate(text string) error {
	if d.Start < 0 || d.End > len(text) || d.Start >= d.End {
		return fmt.Errorf("detection %s has invalid span [%d:%d) for text of length %d",
			d.EntityType, d.Start, d.End, len(text))
	}
	if d.Score < 0 || d.Score > 1 {
		return fmt.Errorf("detection %s has score %.3f outside [0,1]", d.EntityType, d.Score)
	}
	if text[d.Start:d.End] != d.Value {
		return fmt.Errorf("detection %s value %q does not match text span [%d:%d)",
			d.EntityType, d.Value, d.Start, d.End)
	}
	return nil
}

// Overlaps reports whether two detections cover intersecting spans.
func (d Detection) Overlaps(other Detection) bool {
	return d.End > other.Start && d.Start < other.End
}

// Length returns the span length in bytes.
func (d Detection) Length() int {
	return d.End - d.Start
}

// PolicyRule is an administrator-defined rule mapping entity types to an
// action and severity. Rules are read-only input to the engine.
type PolicyRule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	EntityTypes []EntityType `json:"entity_types"`
	Action      PolicyAction `json:"action"`
	Severity    Severity     `json:"severity"`
	Enabled     bool         `json:"enabled"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
	CreatedBy   string       `json:"created_by,omitempty"`
}

// Covers reports whether the rule monitors the given entity type.
func (r PolicyRule) Covers(t EntityType) bool {
	for _, et := range r.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// AppliedPolicy describes one policy rule that matched at least one detection.
type AppliedPolicy struct {
	PolicyID        string       `json:"policy_id"`
	Name            string       `json:"name"`
	Action          PolicyAction `json:"action"`
	Severity        Severity     `json:"severity"`
	EntityTypes     []EntityType `json:"entity_types"`
	MatchedEntities []EntityType `json:"matched_entities"`
	MatchedCount    int          `json:"matched_count"`

	// Relevant holds the detections that matched the rule. It is engine
	// internal state and not part of the serialized result.
	Relevant []Detection `json:"-"`
}

// EngineResult is the sole return value of a policy-application call. It is
// immutable once produced and owned by the caller.
type EngineResult struct {
	RequestID       string          `json:"request_id"`
	Detected        bool            `json:"sensitive_data_detected"`
	Entities        []Detection     `json:"detected_entities"`
	ActionsTaken    []string        `json:"actions_taken"`
	Blocked         bool            `json:"blocked"`
	AlertRequired   bool            `json:"alert_created"`
	PoliciesMatched bool            `json:"policies_matched"`
	AppliedPolicies []AppliedPolicy `json:"applied_policies"`
	RedactedText    *string         `json:"redacted_text,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Alert is the record a caller persists when a policy violation requires
// operator attention.
type Alert struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Severity         Severity     `json:"severity"`
	Status           AlertStatus  `json:"status"`
	SourceIP         string       `json:"source_ip,omitempty"`
	SourceUser       string       `json:"source_user,omitempty"`
	SourceDevice     string       `json:"source_device,omitempty"`
	DetectedEntities []Detection  `json:"detected_entities"`
	PolicyID         string       `json:"policy_id"`
	ActionTaken      PolicyAction `json:"action_taken"`
	Blocked          bool         `json:"blocked"`
	CreatedAt        time.Time    `json:"created_at"`
}

// AlertStatus tracks the review state of a persisted alert.
type AlertStatus string

const (
	AlertStatusPending  AlertStatus = "pending"
	AlertStatusReviewed AlertStatus = "reviewed"
	AlertStatusResolved AlertStatus = "resolved"
)

// LogRecord is an audit log entry persisted by the caller.
type LogRecord struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	Message    string         `json:"message"`
	Level      string         `json:"level"`
	SourceIP   string         `json:"source_ip,omitempty"`
	SourceUser string         `json:"source_user,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
