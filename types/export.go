package types

import "time"

// Export describes a stored snapshot of a user's records.
type Export struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportDocument is the JSON document written to object storage.
type ExportDocument struct {
	ExportedAt time.Time  `json:"exported_at"`
	Accounts   []Account  `json:"accounts"`
	Contacts   []Contact  `json:"contacts"`
	Leads      []Lead     `json:"leads"`
	Activities []Activity `json:"activities"`
	Tasks      []Task     `json:"tasks"`
}
