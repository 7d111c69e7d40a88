package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trailtrack/apiserver/internal/dbx"
	"github.com/trailtrack/apiserver/types"
)

const leadColumns = `id, owner_id, title, account_id, primary_contact_id, stage, value_cents,
	probability, expected_close_date, source, status, created_at, updated_at`

// LeadRepository handles persistence for leads.
type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) List(ctx context.Context, ownerID int) ([]types.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE owner_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]types.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) Get(ctx context.Context, ownerID, id int) (types.Lead, error) {
	return getLead(ctx, r.db, ownerID, id, false)
}

func (r *LeadRepository) Create(ctx context.Context, lead types.Lead) (types.Lead, error) {
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	const query = `
		INSERT INTO leads (owner_id, title, account_id, primary_contact_id, stage, value_cents,
			probability, expected_close_date, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		lead.OwnerID,
		lead.Title,
		lead.AccountID,
		lead.PrimaryContactID,
		lead.Stage,
		lead.ValueCents,
		lead.Probability,
		lead.ExpectedCloseDate,
		lead.Source,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	).Scan(&lead.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Lead{}, ErrInvalidReference
		}
		return types.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// Modify loads the owner's lead, applies fn and writes the result back in
// one transaction.
func (r *LeadRepository) Modify(ctx context.Context, ownerID, id int, fn func(*types.Lead) error) (types.Lead, error) {
	var out types.Lead
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		lead, err := getLead(ctx, tx, ownerID, id, true)
		if err != nil {
			return err
		}
		if err := fn(&lead); err != nil {
			return err
		}
		lead.UpdatedAt = time.Now().UTC()

		const query = `
			UPDATE leads
			SET title = $1,
				account_id = $2,
				primary_contact_id = $3,
				stage = $4,
				value_cents = $5,
				probability = $6,
				expected_close_date = $7,
				source = $8,
				status = $9,
				updated_at = $10
			WHERE id = $11 AND owner_id = $12`
		if _, err := tx.ExecContext(
			ctx,
			query,
			lead.Title,
			lead.AccountID,
			lead.PrimaryContactID,
			lead.Stage,
			lead.ValueCents,
			lead.Probability,
			lead.ExpectedCloseDate,
			lead.Source,
			lead.Status,
			lead.UpdatedAt,
			lead.ID,
			lead.OwnerID,
		); err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidReference
			}
			return fmt.Errorf("update lead: %w", err)
		}
		out = lead
		return nil
	})
	if err != nil {
		return types.Lead{}, err
	}
	return out, nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id int) error {
	return deleteOwned(ctx, r.db, "leads", ownerID, id)
}

func getLead(ctx context.Context, db dbx.DBTX, ownerID, id int, forUpdate bool) (types.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanLead(db.QueryRowContext(ctx, query, id, ownerID))
}

func scanLead(row rowScanner) (types.Lead, error) {
	var lead types.Lead
	err := row.Scan(
		&lead.ID,
		&lead.OwnerID,
		&lead.Title,
		&lead.AccountID,
		&lead.PrimaryContactID,
		&lead.Stage,
		&lead.ValueCents,
		&lead.Probability,
		&lead.ExpectedCloseDate,
		&lead.Source,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Lead{}, ErrNotFound
		}
		return types.Lead{}, err
	}
	return lead, nil
}
