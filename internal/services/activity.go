package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const entityActivity = "activity"

// ActivityRepository defines persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context, ownerID int, leadID *int) ([]types.Activity, error)
	Get(ctx context.Context, ownerID, id int) (types.Activity, error)
	Create(ctx context.Context, activity types.Activity) (types.Activity, error)
	Modify(ctx context.Context, ownerID, id int, fn func(*types.Activity) error) (types.Activity, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// ActivityService encapsulates activity use-cases.
type ActivityService struct {
	repo   ActivityRepository
	refs   References
	events EventPublisher
}

func NewActivityService(repo ActivityRepository, refs References, events EventPublisher) *ActivityService {
	if events == nil {
		events = NopEventPublisher()
	}
	return &ActivityService{repo: repo, refs: refs, events: events}
}

// List returns activities newest first, optionally restricted to one lead.
func (s *ActivityService) List(ctx context.Context, ownerID int, leadID *int) ([]types.Activity, error) {
	return s.repo.List(ctx, ownerID, leadID)
}

func (s *ActivityService) Get(ctx context.Context, ownerID, id int) (types.Activity, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// Create stores a new activity. A missing, null or empty occurred_at is
// stamped with the creation time.
func (s *ActivityService) Create(ctx context.Context, ownerID int, fields types.ActivityFields) (types.Activity, error) {
	if err := requireText("type", fields.Type); err != nil {
		return types.Activity{}, err
	}
	if err := requireText("subject", fields.Subject); err != nil {
		return types.Activity{}, err
	}
	if err := s.checkReferences(ctx, ownerID, fields); err != nil {
		return types.Activity{}, err
	}

	activity := types.Activity{OwnerID: ownerID}
	applyActivityFields(&activity, fields)

	occurredAt, err := coerceTime("occurred_at", fields.OccurredAt, parseOccurredAt)
	if err != nil {
		return types.Activity{}, err
	}
	if occurredAt != nil {
		activity.OccurredAt = *occurredAt
	}

	created, err := s.repo.Create(ctx, activity)
	if err != nil {
		return types.Activity{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityActivity, types.EventCreated, ownerID, created.ID))
	return created, nil
}

// Update applies the fields present in the payload. occurred_at cannot be
// cleared once set.
func (s *ActivityService) Update(ctx context.Context, ownerID, id int, fields types.ActivityFields) (types.Activity, error) {
	if err := checkText("type", fields.Type); err != nil {
		return types.Activity{}, err
	}
	if err := checkText("subject", fields.Subject); err != nil {
		return types.Activity{}, err
	}
	if err := s.checkReferences(ctx, ownerID, fields); err != nil {
		return types.Activity{}, err
	}

	updated, err := s.repo.Modify(ctx, ownerID, id, func(activity *types.Activity) error {
		applyActivityFields(activity, fields)
		if !fields.OccurredAt.Set {
			return nil
		}
		t, err := coerceTime("occurred_at", fields.OccurredAt, parseOccurredAt)
		if err != nil {
			return err
		}
		if t == nil {
			return notEmpty("occurred_at")
		}
		activity.OccurredAt = *t
		return nil
	})
	if err != nil {
		return types.Activity{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityActivity, types.EventUpdated, ownerID, id))
	return updated, nil
}

func (s *ActivityService) Delete(ctx context.Context, ownerID, id int) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityActivity, types.EventDeleted, ownerID, id))
	return nil
}

func (s *ActivityService) checkReferences(ctx context.Context, ownerID int, fields types.ActivityFields) error {
	if err := s.refs.lead(ctx, ownerID, "lead_id", fields.LeadID); err != nil {
		return err
	}
	if err := s.refs.account(ctx, ownerID, "account_id", fields.AccountID); err != nil {
		return err
	}
	return s.refs.contact(ctx, ownerID, "contact_id", fields.ContactID)
}

func applyActivityFields(activity *types.Activity, f types.ActivityFields) {
	assign(&activity.LeadID, f.LeadID)
	assign(&activity.AccountID, f.AccountID)
	assign(&activity.ContactID, f.ContactID)
	assign(&activity.Type, f.Type)
	assign(&activity.Subject, f.Subject)
	assign(&activity.Body, f.Body)
	assign(&activity.DurationMinutes, f.DurationMinutes)
}
