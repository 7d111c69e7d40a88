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

const contactColumns = `id, owner_id, account_id, first_name, last_name, title, email, phone, notes, created_at, updated_at`

// ContactRepository handles persistence for contacts.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) List(ctx context.Context, ownerID int) ([]types.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE owner_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]types.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepository) Get(ctx context.Context, ownerID, id int) (types.Contact, error) {
	return getContact(ctx, r.db, ownerID, id, false)
}

func (r *ContactRepository) Create(ctx context.Context, contact types.Contact) (types.Contact, error) {
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	const query = `
		INSERT INTO contacts (owner_id, account_id, first_name, last_name, title, email, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		contact.OwnerID,
		contact.AccountID,
		contact.FirstName,
		contact.LastName,
		contact.Title,
		contact.Email,
		contact.Phone,
		contact.Notes,
		contact.CreatedAt,
		contact.UpdatedAt,
	).Scan(&contact.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Contact{}, ErrInvalidReference
		}
		return types.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return contact, nil
}

// Modify loads the owner's contact, applies fn and writes the result back
// in one transaction.
func (r *ContactRepository) Modify(ctx context.Context, ownerID, id int, fn func(*types.Contact) error) (types.Contact, error) {
	var out types.Contact
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		contact, err := getContact(ctx, tx, ownerID, id, true)
		if err != nil {
			return err
		}
		if err := fn(&contact); err != nil {
			return err
		}
		contact.UpdatedAt = time.Now().UTC()

		const query = `
			UPDATE contacts
			SET account_id = $1,
				first_name = $2,
				last_name = $3,
				title = $4,
				email = $5,
				phone = $6,
				notes = $7,
				updated_at = $8
			WHERE id = $9 AND owner_id = $10`
		if _, err := tx.ExecContext(
			ctx,
			query,
			contact.AccountID,
			contact.FirstName,
			contact.LastName,
			contact.Title,
			contact.Email,
			contact.Phone,
			contact.Notes,
			contact.UpdatedAt,
			contact.ID,
			contact.OwnerID,
		); err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidReference
			}
			return fmt.Errorf("update contact: %w", err)
		}
		out = contact
		return nil
	})
	if err != nil {
		return types.Contact{}, err
	}
	return out, nil
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id int) error {
	return deleteOwned(ctx, r.db, "contacts", ownerID, id)
}

func getContact(ctx context.Context, db dbx.DBTX, ownerID, id int, forUpdate bool) (types.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanContact(db.QueryRowContext(ctx, query, id, ownerID))
}

func scanContact(row rowScanner) (types.Contact, error) {
	var contact types.Contact
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.AccountID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Title,
		&contact.Email,
		&contact.Phone,
		&contact.Notes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Contact{}, ErrNotFound
		}
		return types.Contact{}, err
	}
	return contact, nil
}
