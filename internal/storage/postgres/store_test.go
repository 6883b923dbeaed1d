package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendo/backend/internal/models"
	"github.com/atendo/backend/internal/storage"
)

// TestRecordStoreIntegration exercises the store against a live database.
func TestRecordStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_RECORDS_INTEGRATION") != "true" {
		t.Skip("set RUN_RECORDS_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewRecordStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	phone := "5531000000000@s.whatsapp.net"
	_, err = store.pool.Exec(ctx, `
		INSERT INTO conversations (phone, tenant_id, full_name, email, status, last_activity)
		VALUES ($1, 'tenant_test', 'Integration Test', 'it@example.com', 'active', NOW())
		ON CONFLICT (phone) DO UPDATE SET tenant_id = 'tenant_test', status = 'active';`, phone)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM conversations WHERE phone = $1;`, phone)
	})

	rec, err := store.GetByPhone(ctx, "tenant_test", phone)
	require.NoError(t, err)
	assert.Equal(t, "Integration Test", rec.FullName)

	_, err = store.GetByPhone(ctx, "tenant_other", phone)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	stamp := time.Now().UTC().Truncate(time.Millisecond)
	updated, err := store.UpdateStatus(ctx, "tenant_test", phone, models.StatusPaused, stamp)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, updated.Status)
	assert.WithinDuration(t, stamp, updated.LastActivity, time.Second)

	_, err = store.UpdateStatus(ctx, "tenant_other", phone, models.StatusActive, stamp)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	listed, err := store.ListByTenant(ctx, "tenant_test")
	require.NoError(t, err)
	require.NotEmpty(t, listed)
	for _, r := range listed {
		assert.Equal(t, "tenant_test", r.TenantID)
	}
}
