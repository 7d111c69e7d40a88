package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const entityContact = "contact"

// ContactRepository defines persistence operations for contacts.
type ContactRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Contact, error)
	Get(ctx context.Context, ownerID, id int) (types.Contact, error)
	Create(ctx context.Context, contact types.Contact) (types.Contact, error)
	Modify(ctx context.Context, ownerID, id int, fn func(*types.Contact) error) (types.Contact, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// ContactService encapsulates contact use-cases.
type ContactService struct {
	repo   ContactRepository
	refs   References
	events EventPublisher
}

// NewContactService needs refs.Accounts.
func NewContactService(repo ContactRepository, refs References, events EventPublisher) *ContactService {
	if events == nil {
		events = NopEventPublisher()
	}
	return &ContactService{repo: repo, refs: refs, events: events}
}

func (s *ContactService) List(ctx context.Context, ownerID int) ([]types.Contact, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *ContactService) Get(ctx context.Context, ownerID, id int) (types.Contact, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *ContactService) Create(ctx context.Context, ownerID int, fields types.ContactFields) (types.Contact, error) {
	if err := requireText("first_name", fields.FirstName); err != nil {
		return types.Contact{}, err
	}
	if err := requireText("last_name", fields.LastName); err != nil {
		return types.Contact{}, err
	}
	if err := s.refs.account(ctx, ownerID, "account_id", fields.AccountID); err != nil {
		return types.Contact{}, err
	}

	contact := types.Contact{OwnerID: ownerID}
	applyContactFields(&contact, fields)

	created, err := s.repo.Create(ctx, contact)
	if err != nil {
		return types.Contact{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityContact, types.EventCreated, ownerID, created.ID))
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, ownerID, id int, fields types.ContactFields) (types.Contact, error) {
	if err := checkText("first_name", fields.FirstName); err != nil {
		return types.Contact{}, err
	}
	if err := checkText("last_name", fields.LastName); err != nil {
		return types.Contact{}, err
	}
	if err := s.refs.account(ctx, ownerID, "account_id", fields.AccountID); err != nil {
		return types.Contact{}, err
	}

	updated, err := s.repo.Modify(ctx, ownerID, id, func(contact *types.Contact) error {
		applyContactFields(contact, fields)
		return nil
	})
	if err != nil {
		return types.Contact{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityContact, types.EventUpdated, ownerID, id))
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id int) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityContact, types.EventDeleted, ownerID, id))
	return nil
}

func applyContactFields(contact *types.Contact, f types.ContactFields) {
	assign(&contact.AccountID, f.AccountID)
	assign(&contact.FirstName, f.FirstName)
	assign(&contact.LastName, f.LastName)
	assign(&contact.Title, f.Title)
	assign(&contact.Email, f.Email)
	assign(&contact.Phone, f.Phone)
	assign(&contact.Notes, f.Notes)
}
