package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const entityTask = "task"

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Task, error)
	Get(ctx context.Context, ownerID, id int) (types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Modify(ctx context.Context, ownerID, id int, fn func(*types.Task) error) (types.Task, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// TaskService encapsulates task use-cases.
type TaskService struct {
	repo   TaskRepository
	events EventPublisher
}

func NewTaskService(repo TaskRepository, events EventPublisher) *TaskService {
	if events == nil {
		events = NopEventPublisher()
	}
	return &TaskService{repo: repo, events: events}
}

// List returns tasks by ascending due time; tasks without one come last.
func (s *TaskService) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *TaskService) Create(ctx context.Context, ownerID int, fields types.TaskFields) (types.Task, error) {
	if err := requireText("linked_type", fields.LinkedType); err != nil {
		return types.Task{}, err
	}
	if !fields.LinkedID.Set || fields.LinkedID.Value < 1 {
		return types.Task{}, required("linked_id")
	}
	if err := requireText("title", fields.Title); err != nil {
		return types.Task{}, err
	}

	task := types.Task{
		OwnerID:  ownerID,
		Priority: types.DefaultTaskPriority,
		Status:   types.TaskStatusOpen,
	}
	if err := applyTaskFields(&task, fields); err != nil {
		return types.Task{}, err
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return types.Task{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityTask, types.EventCreated, ownerID, created.ID))
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, id int, fields types.TaskFields) (types.Task, error) {
	if err := checkText("linked_type", fields.LinkedType); err != nil {
		return types.Task{}, err
	}
	if fields.LinkedID.Set && fields.LinkedID.Value < 1 {
		return types.Task{}, notEmpty("linked_id")
	}
	if err := checkText("title", fields.Title); err != nil {
		return types.Task{}, err
	}

	updated, err := s.repo.Modify(ctx, ownerID, id, func(task *types.Task) error {
		return applyTaskFields(task, fields)
	})
	if err != nil {
		return types.Task{}, err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityTask, types.EventUpdated, ownerID, id))
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.events.Publish(ctx, types.NewRecordEvent(entityTask, types.EventDeleted, ownerID, id))
	return nil
}

func applyTaskFields(task *types.Task, f types.TaskFields) error {
	if err := checkText("priority", f.Priority); err != nil {
		return err
	}
	if err := checkText("status", f.Status); err != nil {
		return err
	}

	assign(&task.LinkedType, f.LinkedType)
	assign(&task.LinkedID, f.LinkedID)
	assign(&task.Title, f.Title)
	assign(&task.Priority, f.Priority)
	assign(&task.Status, f.Status)

	if f.DueAt.Set {
		dueAt, err := coerceTime("due_at", f.DueAt, parseDueAt)
		if err != nil {
			return err
		}
		task.DueAt = dueAt
	}
	return nil
}
