package types

import "time"

// Task status values. Only open tasks are counted on the dashboard.
const (
	TaskStatusOpen     = "open"
	TaskStatusDone     = "done"
	TaskStatusCanceled = "canceled"
)

const DefaultTaskPriority = "medium"

// Task is a to-do item linked to a lead, account or contact.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns this task.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// LinkedType names the kind of record the task is about
	// ("lead", "account" or "contact"); LinkedID is that record's id.
	LinkedType string `json:"linked_type" db:"linked_type"`
	LinkedID   int    `json:"linked_id" db:"linked_id"`

	Title string     `json:"title" db:"title"`
	DueAt *time.Time `json:"due_at" db:"due_at"`

	// Priority is one of low, medium or high.
	Priority string `json:"priority" db:"priority"`

	// Status is one of open, done or canceled.
	Status string `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TaskFields is the set of client-writable task attributes.
type TaskFields struct {
	LinkedType Field[string]  `json:"linked_type"`
	LinkedID   Field[int]     `json:"linked_id"`
	Title      Field[string]  `json:"title"`
	DueAt      Field[*string] `json:"due_at"`
	Priority   Field[string]  `json:"priority"`
	Status     Field[string]  `json:"status"`
}
