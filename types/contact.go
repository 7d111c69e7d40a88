package types

import "time"

// Contact represents a person, optionally attached to an account.
type Contact struct {
	// ID is the unique identifier of the contact.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns this contact.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// AccountID optionally links the contact to an account.
	AccountID *int `json:"account_id" db:"account_id"`

	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	Title     *string `json:"title" db:"title"`
	Email     *string `json:"email" db:"email"`
	Phone     *string `json:"phone" db:"phone"`
	Notes     *string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ContactFields is the set of client-writable contact attributes.
type ContactFields struct {
	AccountID Field[*int]    `json:"account_id"`
	FirstName Field[string]  `json:"first_name"`
	LastName  Field[string]  `json:"last_name"`
	Title     Field[*string] `json:"title"`
	Email     Field[*string] `json:"email"`
	Phone     Field[*string] `json:"phone"`
	Notes     Field[*string] `json:"notes"`
}
