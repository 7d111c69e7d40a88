package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/types"
)

var leadRowColumns = []string{
	"id", "owner_id", "title", "account_id", "primary_contact_id", "stage", "value_cents",
	"probability", "expected_close_date", "source", "status", "created_at", "updated_at",
}

func TestLeadRepository_Modify_WritesStageAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM leads WHERE id = \$1 AND owner_id = \$2 FOR UPDATE`).
		WithArgs(4, 5).
		WillReturnRows(sqlmock.NewRows(leadRowColumns).
			AddRow(4, 5, "Renewal", nil, nil, "Negotiation", int64(150000), 60, nil, "referral", "open", at, at))
	mock.ExpectExec(`UPDATE leads`).
		WithArgs("Renewal", nil, nil, "Closed-Won", int64(150000), 60, nil, "referral", "closed_won", sqlmock.AnyArg(), 4, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lead, err := repo.Modify(context.Background(), 5, 4, func(lead *types.Lead) error {
		lead.Stage = types.LeadStageClosedWon
		lead.Status = types.LeadStatusClosedWon
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "closed_won", lead.Status)
	require.NotNil(t, lead.Source)
	assert.Equal(t, "referral", *lead.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	closeDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(5, "Renewal", nil, nil, "New", int64(0), 10, &closeDate, nil, "open", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	lead, err := repo.Create(context.Background(), types.Lead{
		OwnerID:           5,
		Title:             "Renewal",
		Stage:             types.LeadStageNew,
		Probability:       types.DefaultLeadProbability,
		ExpectedCloseDate: &closeDate,
		Status:            types.LeadStatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, lead.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
