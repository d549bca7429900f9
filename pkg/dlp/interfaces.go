package dlp

import (
	"context"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/policy"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/scanner"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// EntityRecognizer is the optional external NER engine. Absence or failure
// triggers the regex fallback inside the detector.
type EntityRecognizer = scanner.EntityRecognizer

// Encryptor is the injected value-encryption primitive.
type Encryptor = policy.Encryptor

// PolicyStore supplies the enabled, non-deleted policy rules for each call.
// The engine never fetches policies itself; callers pass a snapshot in.
type PolicyStore interface {
	ActivePolicies(ctx context.Context) ([]types.PolicyRule, error)
	ListPolicies(ctx context.Context) ([]types.PolicyRule, error)
	GetPolicy(ctx context.Context, id string) (types.PolicyRule, error)
	CreatePolicy(ctx context.Context, rule types.PolicyRule) (types.PolicyRule, error)
	UpdatePolicy(ctx context.Context, rule types.PolicyRule) (types.PolicyRule, error)
	DeletePolicy(ctx context.Context, id string) error
}

// AlertStore persists alert records. The engine only reports that an alert
// is required; persistence is the caller's decision.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert types.Alert) (types.Alert, error)
	ListAlerts(ctx context.Context) ([]types.Alert, error)
}

// LogStore persists audit log records.
type LogStore interface {
	AppendLog(ctx context.Context, record types.LogRecord) error
	ListLogs(ctx context.Context) ([]types.LogRecord, error)
}

// BlockingService is the external DLP network-blocking service. Callers
// invoke it when a returned result has Blocked set; the engine never calls
// it directly.
type BlockingService interface {
	BlockTransfer(ctx context.Context, sourceIP, destination string, entities []types.Detection, reason string) (bool, error)
	BlockEmail(ctx context.Context, emailID, reason string) (bool, error)
}
