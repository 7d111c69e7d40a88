package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const entityAccount = "account"

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Account, error)
	Get(ctx context.Context, ownerID, id int) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Modify(ctx context.Context, ownerID, id int, fn func(*types.Account) error) (types.Account, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo   AccountRepository
	events EventPublisher
}

func NewAccountService(repo AccountRepository, events EventPublisher) *AccountService {
	if events == nil {
		events = NopEventPublisher()
	}
	return &AccountService{repo: repo, events: events}
}

func (s *AccountService) List(ctx context.Context, ownerID int) ([]types.Account, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *AccountService) Get(ctx context.Context, ownerID, id int) (types.Account, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *AccountService) Create(ctx context.Context, ownerID int, fields types.AccountFields) (types.Account, error) {
	if err := requireText("name", fields.Name); err != nil {
		return types.Account{}, err
	}

	account := types.Account{OwnerID: ownerID}
	applyAccountFields(&account, fields)

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return types.Account{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityAccount, types.EventCreated, ownerID, created.ID))
	return created, nil
}

// Update applies the fields present in the payload and leaves the rest
// untouched.
func (s *AccountService) Update(ctx context.Context, ownerID, id int, fields types.AccountFields) (types.Account, error) {
	if err := checkText("name", fields.Name); err != nil {
		return types.Account{}, err
	}

	updated, err := s.repo.Modify(ctx, ownerID, id, func(account *types.Account) error {
		applyAccountFields(account, fields)
		return nil
	})
	if err != nil {
		return types.Account{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityAccount, types.EventUpdated, ownerID, id))
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, ownerID, id int) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityAccount, types.EventDeleted, ownerID, id))
	return nil
}

func applyAccountFields(account *types.Account, f types.AccountFields) {
	assign(&account.Name, f.Name)
	assign(&account.Website, f.Website)
	assign(&account.Industry, f.Industry)
	assign(&account.Size, f.Size)
	assign(&account.Phone, f.Phone)
	assign(&account.Email, f.Email)
	assign(&account.Street, f.Street)
	assign(&account.City, f.City)
	assign(&account.State, f.State)
	assign(&account.PostalCode, f.PostalCode)
	assign(&account.Country, f.Country)
	assign(&account.Notes, f.Notes)
}
