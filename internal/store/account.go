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

const accountColumns = `id, owner_id, name, website, industry, size, phone, email,
	street, city, state, postal_code, country, notes, created_at, updated_at`

// AccountRepository handles persistence for accounts. Every query is
// scoped by owner.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) List(ctx context.Context, ownerID int) ([]types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]types.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) Get(ctx context.Context, ownerID, id int) (types.Account, error) {
	return getAccount(ctx, r.db, ownerID, id, false)
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `
		INSERT INTO accounts (owner_id, name, website, industry, size, phone, email,
			street, city, state, postal_code, country, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.OwnerID,
		account.Name,
		account.Website,
		account.Industry,
		account.Size,
		account.Phone,
		account.Email,
		account.Street,
		account.City,
		account.State,
		account.PostalCode,
		account.Country,
		account.Notes,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID); err != nil {
		return types.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

// Modify loads the owner's account, applies fn and writes the result back
// in one transaction. updated_at is refreshed on success.
func (r *AccountRepository) Modify(ctx context.Context, ownerID, id int, fn func(*types.Account) error) (types.Account, error) {
	var out types.Account
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := getAccount(ctx, tx, ownerID, id, true)
		if err != nil {
			return err
		}
		if err := fn(&account); err != nil {
			return err
		}
		account.UpdatedAt = time.Now().UTC()

		const query = `
			UPDATE accounts
			SET name = $1,
				website = $2,
				industry = $3,
				size = $4,
				phone = $5,
				email = $6,
				street = $7,
				city = $8,
				state = $9,
				postal_code = $10,
				country = $11,
				notes = $12,
				updated_at = $13
			WHERE id = $14 AND owner_id = $15`
		if _, err := tx.ExecContext(
			ctx,
			query,
			account.Name,
			account.Website,
			account.Industry,
			account.Size,
			account.Phone,
			account.Email,
			account.Street,
			account.City,
			account.State,
			account.PostalCode,
			account.Country,
			account.Notes,
			account.UpdatedAt,
			account.ID,
			account.OwnerID,
		); err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		out = account
		return nil
	})
	if err != nil {
		return types.Account{}, err
	}
	return out, nil
}

func (r *AccountRepository) Delete(ctx context.Context, ownerID, id int) error {
	return deleteOwned(ctx, r.db, "accounts", ownerID, id)
}

func getAccount(ctx context.Context, db dbx.DBTX, ownerID, id int, forUpdate bool) (types.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanAccount(db.QueryRowContext(ctx, query, id, ownerID))
}

func scanAccount(row rowScanner) (types.Account, error) {
	var account types.Account
	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.Name,
		&account.Website,
		&account.Industry,
		&account.Size,
		&account.Phone,
		&account.Email,
		&account.Street,
		&account.City,
		&account.State,
		&account.PostalCode,
		&account.Country,
		&account.Notes,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}
