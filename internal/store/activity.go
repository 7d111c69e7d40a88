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

const activityColumns = `id, owner_id, lead_id, account_id, contact_id, type, subject, body,
	occurred_at, duration_minutes, created_at, updated_at`

// ActivityRepository handles persistence for activities.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns the owner's activities, most recent first. When leadID is
// non-nil only activities for that lead are returned.
func (r *ActivityRepository) List(ctx context.Context, ownerID int, leadID *int) ([]types.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE owner_id = $1`
	args := []any{ownerID}
	if leadID != nil {
		query += ` AND lead_id = $2`
		args = append(args, *leadID)
	}
	query += ` ORDER BY occurred_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]types.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepository) Get(ctx context.Context, ownerID, id int) (types.Activity, error) {
	return getActivity(ctx, r.db, ownerID, id, false)
}

func (r *ActivityRepository) Create(ctx context.Context, activity types.Activity) (types.Activity, error) {
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = now
	}

	const query = `
		INSERT INTO activities (owner_id, lead_id, account_id, contact_id, type, subject, body,
			occurred_at, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		activity.OwnerID,
		activity.LeadID,
		activity.AccountID,
		activity.ContactID,
		activity.Type,
		activity.Subject,
		activity.Body,
		activity.OccurredAt,
		activity.DurationMinutes,
		activity.CreatedAt,
		activity.UpdatedAt,
	).Scan(&activity.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Activity{}, ErrInvalidReference
		}
		return types.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return activity, nil
}

// Modify loads the owner's activity, applies fn and writes the result back
// in one transaction.
func (r *ActivityRepository) Modify(ctx context.Context, ownerID, id int, fn func(*types.Activity) error) (types.Activity, error) {
	var out types.Activity
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		activity, err := getActivity(ctx, tx, ownerID, id, true)
		if err != nil {
			return err
		}
		if err := fn(&activity); err != nil {
			return err
		}
		activity.UpdatedAt = time.Now().UTC()

		const query = `
			UPDATE activities
			SET lead_id = $1,
				account_id = $2,
				contact_id = $3,
				type = $4,
				subject = $5,
				body = $6,
				occurred_at = $7,
				duration_minutes = $8,
				updated_at = $9
			WHERE id = $10 AND owner_id = $11`
		if _, err := tx.ExecContext(
			ctx,
			query,
			activity.LeadID,
			activity.AccountID,
			activity.ContactID,
			activity.Type,
			activity.Subject,
			activity.Body,
			activity.OccurredAt,
			activity.DurationMinutes,
			activity.UpdatedAt,
			activity.ID,
			activity.OwnerID,
		); err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidReference
			}
			return fmt.Errorf("update activity: %w", err)
		}
		out = activity
		return nil
	})
	if err != nil {
		return types.Activity{}, err
	}
	return out, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, ownerID, id int) error {
	return deleteOwned(ctx, r.db, "activities", ownerID, id)
}

func getActivity(ctx context.Context, db dbx.DBTX, ownerID, id int, forUpdate bool) (types.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanActivity(db.QueryRowContext(ctx, query, id, ownerID))
}

func scanActivity(row rowScanner) (types.Activity, error) {
	var activity types.Activity
	err := row.Scan(
		&activity.ID,
		&activity.OwnerID,
		&activity.LeadID,
		&activity.AccountID,
		&activity.ContactID,
		&activity.Type,
		&activity.Subject,
		&activity.Body,
		&activity.OccurredAt,
		&activity.DurationMinutes,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Activity{}, ErrNotFound
		}
		return types.Activity{}, err
	}
	return activity, nil
}
