package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/internal/tests/memstore"
	"github.com/trailtrack/apiserver/types"
)

func TestAccountService_RoundTrip(t *testing.T) {
	events := &memstore.Events{}
	svc := NewAccountService(memstore.NewAccounts(), events)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, types.AccountFields{
		Name:    types.Some("Acme"),
		City:    types.Some(strPtr("Berlin")),
		Country: types.Some(strPtr("DE")),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, created.OwnerID)

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := svc.Update(ctx, 1, created.ID, types.AccountFields{City: types.Some(strPtr("Munich"))})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "Munich", *updated.City)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	_, err = svc.Get(ctx, 1, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{"account.created", "account.updated", "account.deleted"}, events.Types())
}

func TestAccountService_Validation(t *testing.T) {
	svc := NewAccountService(memstore.NewAccounts(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, types.AccountFields{})
	assert.EqualError(t, err, "name is required")

	created, err := svc.Create(ctx, 1, types.AccountFields{Name: types.Some("Acme")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, created.ID, types.AccountFields{Name: types.Field[string]{Set: true}})
	assert.EqualError(t, err, "name must not be empty")
}

func TestContactService_RoundTrip(t *testing.T) {
	refs := memReferences()
	svc := NewContactService(memstore.NewContacts(), refs, nil)
	ctx := context.Background()
	account, err := refs.Accounts.Create(ctx, types.Account{OwnerID: 1, Name: "Acme"})
	require.NoError(t, err)
	accountID := account.ID

	_, err = svc.Create(ctx, 1, types.ContactFields{FirstName: types.Some("Ada")})
	assert.EqualError(t, err, "last_name is required")

	created, err := svc.Create(ctx, 1, types.ContactFields{
		FirstName: types.Some("Ada"),
		LastName:  types.Some("Lovelace"),
		AccountID: types.Some(&accountID),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, created.ID, types.ContactFields{AccountID: types.Field[*int]{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.AccountID)
	assert.Equal(t, "Lovelace", updated.LastName)

	_, err = svc.Update(ctx, 2, created.ID, types.ContactFields{Title: types.Some(strPtr("CTO"))})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
