package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atendo/backend/internal/models"
	"github.com/atendo/backend/internal/storage"
)

// Ensure Store satisfies the storage.RecordStore interface at compile time.
var _ storage.RecordStore = (*Store)(nil)

const recordColumns = `phone, COALESCE(tenant_id, ''), full_name, email, status, sector, active,
	first_contact, last_contact, total_messages, total_transcripts, last_activity`

// Store provides Postgres-backed persistence for conversation records.
type Store struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates a new Store and runs migrations.
func NewRecordStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			phone TEXT PRIMARY KEY,
			tenant_id TEXT,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			sector TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			first_contact TIMESTAMPTZ,
			last_contact TIMESTAMPTZ,
			total_messages INT NOT NULL DEFAULT 0,
			total_transcripts INT NOT NULL DEFAULT 0,
			last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`ALTER TABLE conversations ADD COLUMN IF NOT EXISTS tenant_id TEXT;`,
		`CREATE INDEX IF NOT EXISTS conversations_tenant_idx ON conversations (tenant_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// ListByTenant returns all records owned by the tenant, most recent activity
// first.
func (s *Store) ListByTenant(ctx context.Context, tenantID string) ([]models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE tenant_id = $1 ORDER BY last_activity DESC LIMIT 100;`, recordColumns)
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListAll returns records regardless of owner. Rows with no tenant assigned
// yet are included.
func (s *Store) ListAll(ctx context.Context) ([]models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations ORDER BY last_activity DESC LIMIT 100;`, recordColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetByPhone fetches one record by phone key within the tenant.
func (s *Store) GetByPhone(ctx context.Context, tenantID, phone string) (models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE phone = $1 AND tenant_id = $2;`, recordColumns)
	row := s.pool.QueryRow(ctx, query, phone, tenantID)
	return scanRecord(row)
}

// UpdateStatus applies the status change and the last-activity stamp in a
// single UPDATE. A miss on phone or tenant reports storage.ErrNotFound.
func (s *Store) UpdateStatus(ctx context.Context, tenantID, phone string, status models.Status, at time.Time) (models.Record, error) {
	query := fmt.Sprintf(`
		UPDATE conversations
		SET status = $1, last_activity = $2
		WHERE phone = $3 AND tenant_id = $4
		RETURNING %s;`, recordColumns)
	row := s.pool.QueryRow(ctx, query, status, at, phone, tenantID)
	return scanRecord(row)
}

func scanRecord(row pgx.Row) (models.Record, error) {
	var rec models.Record
	err := row.Scan(&rec.Phone, &rec.TenantID, &rec.FullName, &rec.Email, &rec.Status,
		&rec.Sector, &rec.Active, &rec.FirstContact, &rec.LastContact,
		&rec.TotalMessages, &rec.TotalTranscripts, &rec.LastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Record{}, storage.ErrNotFound
		}
		return models.Record{}, err
	}
	return rec, nil
}

func scanRecords(rows pgx.Rows) ([]models.Record, error) {
	records := make([]models.Record, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
