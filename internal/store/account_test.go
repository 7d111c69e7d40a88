package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/types"
)

var accountRowColumns = []string{
	"id", "owner_id", "name", "website", "industry", "size", "phone", "email",
	"street", "city", "state", "postal_code", "country", "notes", "created_at", "updated_at",
}

func accountRow(id, ownerID int, name string, at time.Time) []driver.Value {
	return []driver.Value{id, ownerID, name, nil, "Retail", nil, nil, nil, nil, "Berlin", nil, nil, "DE", nil, at, at}
}

func TestAccountRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(accountRowColumns).
		AddRow(accountRow(1, 5, "Acme", at)...).
		AddRow(accountRow(2, 5, "Globex", at)...)
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE owner_id = \$1 ORDER BY id`).
		WithArgs(5).
		WillReturnRows(rows)

	accounts, err := repo.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Acme", accounts[0].Name)
	assert.Nil(t, accounts[0].Website)
	require.NotNil(t, accounts[0].Industry)
	assert.Equal(t, "Retail", *accounts[0].Industry)
	assert.Equal(t, "Globex", accounts[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`FROM accounts WHERE owner_id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	accounts, err := repo.List(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountRepository_Get_ScopedByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`FROM accounts WHERE id = \$1 AND owner_id = \$2$`).
		WithArgs(1, 9).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(5, "Acme", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	account, err := repo.Create(context.Background(), types.Account{OwnerID: 5, Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 11, account.ID)
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Modify_Commits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM accounts WHERE id = \$1 AND owner_id = \$2 FOR UPDATE`).
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(accountRow(1, 5, "Acme", at)...))
	mock.ExpectExec(`UPDATE accounts`).
		WithArgs("Acme Corp", nil, "Retail", nil, nil, nil, nil, "Berlin", nil, nil, "DE", nil, sqlmock.AnyArg(), 1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.Modify(context.Background(), 5, 1, func(account *types.Account) error {
		account.Name = "Acme Corp"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, at, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Modify_NotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM accounts WHERE id = \$1 AND owner_id = \$2 FOR UPDATE`).
		WithArgs(1, 9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	called := false
	_, err := repo.Modify(context.Background(), 9, 1, func(*types.Account) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Modify_MutationErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(accountRow(1, 5, "Acme", at)...))
	mock.ExpectRollback()

	invalid := errors.New("invalid")
	_, err := repo.Modify(context.Background(), 5, 1, func(*types.Account) error { return invalid })
	assert.ErrorIs(t, err, invalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(1, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 5, 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 9, 1), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
