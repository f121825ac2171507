package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository uses. pgxmock
// implements it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. The database assigns created_at; the status is
// always "new" regardless of what the caller holds.
func (r *PostgresRepository) Create(ctx context.Context, lead *NewLead) (string, error) {
	id := uuid.New()
	fields, err := json.Marshal(lead.Fields)
	if err != nil {
		return "", fmt.Errorf("leads: encode fields: %w", err)
	}
	var attribution []byte
	if lead.Attribution != nil {
		if attribution, err = json.Marshal(lead.Attribution); err != nil {
			return "", fmt.Errorf("leads: encode attribution: %w", err)
		}
	}

	query := `
		INSERT INTO leads (id, page_path, form_id, lead_type, status, lead_score, fields, attribution, user_agent, ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.PagePath,
		lead.FormID,
		lead.LeadType,
		StatusNew,
		lead.LeadScore,
		fields,
		attribution,
		lead.UserAgent,
		lead.IP,
	).Scan(&createdAt); err != nil {
		return "", fmt.Errorf("leads: insert failed: %w", err)
	}

	return id.String(), nil
}

// UpdateStatus changes the status column of an existing row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	tag, err := r.pool.Exec(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("leads: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// List returns the most recent leads.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*Lead, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, page_path, form_id, lead_type, status, lead_score, fields, attribution, user_agent, ip
		FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		var (
			lead        Lead
			fields      []byte
			attribution []byte
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.CreatedAt,
			&lead.PagePath,
			&lead.FormID,
			&lead.LeadType,
			&lead.Status,
			&lead.LeadScore,
			&fields,
			&attribution,
			&lead.UserAgent,
			&lead.IP,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		if err := json.Unmarshal(fields, &lead.Fields); err != nil {
			return nil, fmt.Errorf("leads: decode fields: %w", err)
		}
		if attribution != nil {
			if err := json.Unmarshal(attribution, &lead.Attribution); err != nil {
				return nil, fmt.Errorf("leads: decode attribution: %w", err)
			}
		}
		out = append(out, &lead)
	}
	return out, rows.Err()
}
