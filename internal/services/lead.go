package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const entityLead = "lead"

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Lead, error)
	Get(ctx context.Context, ownerID, id int) (types.Lead, error)
	Create(ctx context.Context, lead types.Lead) (types.Lead, error)
	Modify(ctx context.Context, ownerID, id int, fn func(*types.Lead) error) (types.Lead, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// LeadService encapsulates lead use-cases, including the stage rule that
// closes a lead when it reaches a terminal stage.
type LeadService struct {
	repo   LeadRepository
	refs   References
	events EventPublisher
}

// NewLeadService needs refs.Accounts and refs.Contacts.
func NewLeadService(repo LeadRepository, refs References, events EventPublisher) *LeadService {
	if events == nil {
		events = NopEventPublisher()
	}
	return &LeadService{repo: repo, refs: refs, events: events}
}

func (s *LeadService) List(ctx context.Context, ownerID int) ([]types.Lead, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *LeadService) Get(ctx context.Context, ownerID, id int) (types.Lead, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *LeadService) Create(ctx context.Context, ownerID int, fields types.LeadFields) (types.Lead, error) {
	if err := requireText("title", fields.Title); err != nil {
		return types.Lead{}, err
	}
	if err := s.checkReferences(ctx, ownerID, fields); err != nil {
		return types.Lead{}, err
	}

	lead := types.Lead{
		OwnerID:     ownerID,
		Stage:       types.LeadStageNew,
		Probability: types.DefaultLeadProbability,
		Status:      types.LeadStatusOpen,
	}
	if err := applyLeadFields(&lead, fields); err != nil {
		return types.Lead{}, err
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return types.Lead{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityLead, types.EventCreated, ownerID, created.ID))
	return created, nil
}

// Update applies the fields present in the payload. A terminal stage
// overwrites status; an explicit status in the same payload wins.
func (s *LeadService) Update(ctx context.Context, ownerID, id int, fields types.LeadFields) (types.Lead, error) {
	if err := checkText("title", fields.Title); err != nil {
		return types.Lead{}, err
	}
	if err := s.checkReferences(ctx, ownerID, fields); err != nil {
		return types.Lead{}, err
	}

	var previousStatus string
	updated, err := s.repo.Modify(ctx, ownerID, id, func(lead *types.Lead) error {
		previousStatus = lead.Status
		return applyLeadFields(lead, fields)
	})
	if err != nil {
		return types.Lead{}, err
	}

	s.events.Publish(ctx, types.NewRecordEvent(entityLead, types.EventUpdated, ownerID, id))
	if updated.Status != previousStatus {
		switch updated.Status {
		case types.LeadStatusClosedWon:
			s.events.Publish(ctx, types.NewRecordEvent(entityLead, types.EventLeadClosedWon, ownerID, id))
		case types.LeadStatusClosedLost:
			s.events.Publish(ctx, types.NewRecordEvent(entityLead, types.EventLeadClosedLost, ownerID, id))
		}
	}
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, ownerID, id int) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityLead, types.EventDeleted, ownerID, id))
	return nil
}

func (s *LeadService) checkReferences(ctx context.Context, ownerID int, fields types.LeadFields) error {
	if err := s.refs.account(ctx, ownerID, "account_id", fields.AccountID); err != nil {
		return err
	}
	return s.refs.contact(ctx, ownerID, "primary_contact_id", fields.PrimaryContactID)
}

// StatusForStage returns the closed status implied by a terminal stage.
func StatusForStage(stage string) (string, bool) {
	switch stage {
	case types.LeadStageClosedWon:
		return types.LeadStatusClosedWon, true
	case types.LeadStageClosedLost:
		return types.LeadStatusClosedLost, true
	default:
		return "", false
	}
}

func applyLeadFields(lead *types.Lead, f types.LeadFields) error {
	if err := checkText("stage", f.Stage); err != nil {
		return err
	}
	if err := checkText("status", f.Status); err != nil {
		return err
	}

	if f.Stage.Set {
		lead.Stage = f.Stage.Value
		if status, ok := StatusForStage(f.Stage.Value); ok {
			lead.Status = status
		}
	}

	assign(&lead.Title, f.Title)
	assign(&lead.AccountID, f.AccountID)
	assign(&lead.PrimaryContactID, f.PrimaryContactID)
	assign(&lead.ValueCents, f.ValueCents)
	assign(&lead.Probability, f.Probability)
	assign(&lead.Source, f.Source)
	assign(&lead.Status, f.Status)

	if f.ExpectedCloseDate.Set {
		closeDate, err := coerceTime("expected_close_date", f.ExpectedCloseDate, parseCloseDate)
		if err != nil {
			return err
		}
		lead.ExpectedCloseDate = closeDate
	}
	return nil
}
