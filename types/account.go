package types

import "time"

// Account represents a customer organisation owned by a single user.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns this account.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// Name is the organisation name.
	Name string `json:"name" db:"name"`

	Website    *string `json:"website" db:"website"`
	Industry   *string `json:"industry" db:"industry"`
	Size       *string `json:"size" db:"size"`
	Phone      *string `json:"phone" db:"phone"`
	Email      *string `json:"email" db:"email"`
	Street     *string `json:"street" db:"street"`
	City       *string `json:"city" db:"city"`
	State      *string `json:"state" db:"state"`
	PostalCode *string `json:"postal_code" db:"postal_code"`
	Country    *string `json:"country" db:"country"`

	// Notes holds free-form text about the account.
	Notes *string `json:"notes" db:"notes"`

	// CreatedAt is the timestamp at which the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AccountFields is the set of client-writable account attributes.
// It is used for both create and partial update payloads.
type AccountFields struct {
	Name       Field[string]  `json:"name"`
	Website    Field[*string] `json:"website"`
	Industry   Field[*string] `json:"industry"`
	Size       Field[*string] `json:"size"`
	Phone      Field[*string] `json:"phone"`
	Email      Field[*string] `json:"email"`
	Street     Field[*string] `json:"street"`
	City       Field[*string] `json:"city"`
	State      Field[*string] `json:"state"`
	PostalCode Field[*string] `json:"postal_code"`
	Country    Field[*string] `json:"country"`
	Notes      Field[*string] `json:"notes"`
}
