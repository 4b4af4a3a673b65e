package domain

import "time"

type Lead struct {
	ID         int64     `db:"id"`
	ExternalID *string   `db:"external_id"`
	Phone      *string   `db:"phone"`
	Email      *string   `db:"email"`
	Name       *string   `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Source struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Operator struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	LoadLimit int       `db:"load_limit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SourceOperatorWeight binds an operator to a source. It is the only link
// that makes an operator eligible for that source's contacts; at most one
// row exists per (source_id, operator_id) pair.
type SourceOperatorWeight struct {
	ID         int64     `db:"id"`
	SourceID   int64     `db:"source_id"`
	OperatorID int64     `db:"operator_id"`
	Weight     int64     `db:"weight"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Contact is a single inbound request from a lead. A nil OperatorID means
// the contact is unassigned; IsActive marks whether it currently counts
// toward the assigned operator's load.
type Contact struct {
	ID         int64     `db:"id"`
	LeadID     int64     `db:"lead_id"`
	SourceID   int64     `db:"source_id"`
	OperatorID *int64    `db:"operator_id"`
	IsActive   bool      `db:"is_active"`
	Message    *string   `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ContactDetail is a contact with its related rows resolved. Operator is nil
// for unassigned contacts.
type ContactDetail struct {
	Contact
	Lead     Lead
	Source   Source
	Operator *Operator
}

type LeadPatch struct {
	ExternalID *string
	Phone      *string
	Email      *string
	Name       *string
}

type SourcePatch struct {
	Name        *string
	Description *string
}

type OperatorPatch struct {
	Name      *string
	IsActive  *bool
	LoadLimit *int
}

type ContactPatch struct {
	IsActive   *bool
	Message    *string
	OperatorID *int64
}

// DistributionRow is one (source, operator) bucket of the contact
// distribution statistics. OperatorID is nil for unassigned contacts.
type DistributionRow struct {
	SourceID   int64  `db:"source_id"`
	OperatorID *int64 `db:"operator_id"`
	Count      int64  `db:"cnt"`
}
