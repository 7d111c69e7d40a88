package types

import "time"

// Activity records an interaction such as a call, email, meeting, note or sms.
type Activity struct {
	// ID is the unique identifier of the activity.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns this activity.
	OwnerID int `json:"owner_id" db:"owner_id"`

	LeadID    *int `json:"lead_id" db:"lead_id"`
	AccountID *int `json:"account_id" db:"account_id"`
	ContactID *int `json:"contact_id" db:"contact_id"`

	// Type is the interaction kind (call, email, meeting, note, sms).
	Type    string  `json:"type" db:"type"`
	Subject string  `json:"subject" db:"subject"`
	Body    *string `json:"body" db:"body"`

	// OccurredAt defaults to the creation time when not supplied.
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`

	DurationMinutes *int `json:"duration_minutes" db:"duration_minutes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ActivityFields is the set of client-writable activity attributes.
type ActivityFields struct {
	LeadID          Field[*int]    `json:"lead_id"`
	AccountID       Field[*int]    `json:"account_id"`
	ContactID       Field[*int]    `json:"contact_id"`
	Type            Field[string]  `json:"type"`
	Subject         Field[string]  `json:"subject"`
	Body            Field[*string] `json:"body"`
	OccurredAt      Field[*string] `json:"occurred_at"`
	DurationMinutes Field[*int]    `json:"duration_minutes"`
}
