// Package dashboard performs the record operations exposed to the
// presentation layer, always scoped to the tenant resolved by the
// authorization middleware.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atendo/backend/internal/models"
	"github.com/atendo/backend/internal/storage"
)

// Scoping modes for listing results.
const (
	// ScopingStrict means every returned record was filtered by the
	// caller's tenant.
	ScopingStrict = "strict"
	// ScopingDegraded means the listing may include records outside the
	// caller's tenant. The transitional state is labeled, never silent.
	ScopingDegraded = "degraded"
)

// DegradedWarning accompanies every degraded listing so callers can detect
// the transitional state.
const DegradedWarning = "tenant filtering not yet enforced for listings; results may include other tenants"

var (
	// ErrNotFound covers both true absence and records owned by another
	// tenant.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidStatus rejects status values outside the allowed set before
	// any store call.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrStoreUnavailable wraps any underlying store failure. Store errors
	// are not retried and never masked as success.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Listing is the result of a tenant listing, labeled with how strictly it
// was scoped.
type Listing struct {
	Records []models.Record
	Scoping string
}

// Gateway runs record reads and mutations against the store on behalf of a
// resolved tenant.
type Gateway struct {
	store       storage.RecordStore
	timeout     time.Duration
	strictScope bool
	now         func() time.Time
}

// New builds a gateway. strictScope selects whether listings filter by
// tenant or run in the labeled degraded mode.
func New(store storage.RecordStore, timeout time.Duration, strictScope bool) *Gateway {
	return &Gateway{
		store:       store,
		timeout:     timeout,
		strictScope: strictScope,
		now:         time.Now,
	}
}

// ListForTenant returns the tenant's records. In degraded mode the listing is
// unfiltered and explicitly labeled so.
func (g *Gateway) ListForTenant(ctx context.Context, tenantID string) (Listing, error) {
	ctx, cancel := g.storeContext(ctx)
	defer cancel()

	if g.strictScope {
		records, err := g.store.ListByTenant(ctx, tenantID)
		if err != nil {
			return Listing{}, storeErr("list records", err)
		}
		return Listing{Records: records, Scoping: ScopingStrict}, nil
	}

	records, err := g.store.ListAll(ctx)
	if err != nil {
		return Listing{}, storeErr("list records", err)
	}
	return Listing{Records: records, Scoping: ScopingDegraded}, nil
}

// Get fetches one record by phone key. A record owned by another tenant is
// reported as not found, never as forbidden.
func (g *Gateway) Get(ctx context.Context, tenantID, phone string) (models.Record, error) {
	ctx, cancel := g.storeContext(ctx)
	defer cancel()

	record, err := g.store.GetByPhone(ctx, tenantID, phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Record{}, ErrNotFound
		}
		return models.Record{}, storeErr("get record", err)
	}
	return record, nil
}

// UpdateStatus validates the new status, then applies it together with a
// fresh last-activity stamp in one store write. The enum check runs before
// the store is touched.
func (g *Gateway) UpdateStatus(ctx context.Context, tenantID, phone string, status models.Status) (models.Record, error) {
	if !status.Valid() {
		return models.Record{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	ctx, cancel := g.storeContext(ctx)
	defer cancel()

	record, err := g.store.UpdateStatus(ctx, tenantID, phone, status, g.now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Record{}, ErrNotFound
		}
		return models.Record{}, storeErr("update status", err)
	}
	return record, nil
}

func (g *Gateway) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
