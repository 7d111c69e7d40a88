package types

import "time"

// Pipeline stages a lead moves through.
const (
	LeadStageNew         = "New"
	LeadStageQualified   = "Qualified"
	LeadStageProposal    = "Proposal"
	LeadStageNegotiation = "Negotiation"
	LeadStageClosedWon   = "Closed-Won"
	LeadStageClosedLost  = "Closed-Lost"
)

// Lead status values. Only open leads count toward the pipeline value.
const (
	LeadStatusOpen       = "open"
	LeadStatusClosedWon  = "closed_won"
	LeadStatusClosedLost = "closed_lost"
)

const (
	DefaultLeadProbability = 10
)

// Lead represents a sales opportunity.
type Lead struct {
	// ID is the unique identifier of the lead.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns this lead.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// Title is a short description of the opportunity.
	Title string `json:"title" db:"title"`

	AccountID        *int `json:"account_id" db:"account_id"`
	PrimaryContactID *int `json:"primary_contact_id" db:"primary_contact_id"`

	// Stage is the free-text pipeline stage label, see LeadStage*.
	Stage string `json:"stage" db:"stage"`

	// ValueCents is the expected deal value in minor currency units.
	ValueCents int64 `json:"value_cents" db:"value_cents"`

	// Probability is the estimated win probability, in percent.
	Probability int `json:"probability" db:"probability"`

	ExpectedCloseDate *time.Time `json:"expected_close_date" db:"expected_close_date"`
	Source            *string    `json:"source" db:"source"`

	// Status is derived from terminal stages and may also be set directly,
	// see LeadStatus*.
	Status string `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LeadFields is the set of client-writable lead attributes. The expected
// close date is kept raw so the service can apply its date coercion rules.
type LeadFields struct {
	Title             Field[string]  `json:"title"`
	AccountID         Field[*int]    `json:"account_id"`
	PrimaryContactID  Field[*int]    `json:"primary_contact_id"`
	Stage             Field[string]  `json:"stage"`
	ValueCents        Field[int64]   `json:"value_cents"`
	Probability       Field[int]     `json:"probability"`
	ExpectedCloseDate Field[*string] `json:"expected_close_date"`
	Source            Field[*string] `json:"source"`
	Status            Field[string]  `json:"status"`
}
