package services

import (
	"context"
	"errors"

	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/types"
)

// References resolves related-record ids named in a payload against the
// caller's own records. Another owner's id is treated exactly like a
// missing one.
type References struct {
	Accounts AccountRepository
	Contacts ContactRepository
	Leads    LeadRepository
}

func (r References) account(ctx context.Context, ownerID int, field string, f types.Field[*int]) error {
	return checkReference(field, f, func(id int) error {
		_, err := r.Accounts.Get(ctx, ownerID, id)
		return err
	})
}

func (r References) contact(ctx context.Context, ownerID int, field string, f types.Field[*int]) error {
	return checkReference(field, f, func(id int) error {
		_, err := r.Contacts.Get(ctx, ownerID, id)
		return err
	})
}

func (r References) lead(ctx context.Context, ownerID int, field string, f types.Field[*int]) error {
	return checkReference(field, f, func(id int) error {
		_, err := r.Leads.Get(ctx, ownerID, id)
		return err
	})
}

// checkReference is a no-op for absent or null ids.
func checkReference(field string, f types.Field[*int], get func(id int) error) error {
	if !f.Set || f.Value == nil {
		return nil
	}
	err := get(*f.Value)
	if errors.Is(err, store.ErrNotFound) {
		return &ValidationError{Field: field, Message: "does not match any record"}
	}
	return err
}
