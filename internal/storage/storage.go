package storage

import (
	"context"
	"errors"
	"time"

	"github.com/atendo/backend/internal/models"
)

// ErrNotFound indicates a record does not exist (or is owned by another
// tenant; the two cases are identical to callers).
var ErrNotFound = errors.New("record not found")

// RecordStore captures persistence operations needed by the dashboard
// gateway. Every call is bounded by the caller's context deadline.
type RecordStore interface {
	// ListByTenant returns records owned by the tenant.
	ListByTenant(ctx context.Context, tenantID string) ([]models.Record, error)
	// ListAll returns records without tenant filtering. Only the gateway's
	// degraded scoping mode uses it, and listings built from it are labeled
	// as such.
	ListAll(ctx context.Context) ([]models.Record, error)
	// GetByPhone fetches one record by its phone key, scoped to the tenant.
	GetByPhone(ctx context.Context, tenantID, phone string) (models.Record, error)
	// UpdateStatus sets the record's status and stamps last_activity in the
	// same write. The two fields change together or not at all.
	UpdateStatus(ctx context.Context, tenantID, phone string, status models.Status, at time.Time) (models.Record, error)
}
