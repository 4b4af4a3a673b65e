// package api holds the JSON types of the public HTTP surface. Services
// return these types; the transport layer only wraps them into the
// response envelope.
package api

import "time"

type Lead struct {
	ID         int64     `json:"id"`
	ExternalID *string   `json:"external_id"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Name       *string   `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Source struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Operator struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	LoadLimit int       `json:"load_limit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SourceOperatorWeight struct {
	ID         int64     `json:"id"`
	SourceID   int64     `json:"source_id"`
	OperatorID int64     `json:"operator_id"`
	Weight     int64     `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SourceWithWeights struct {
	Source
	OperatorWeights []SourceOperatorWeight `json:"operator_weights"`
}

type Contact struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	SourceID   int64     `json:"source_id"`
	OperatorID *int64    `json:"operator_id"`
	IsActive   bool      `json:"is_active"`
	Message    *string   `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContactDetail is a contact with its lead, source and operator resolved.
// Operator is null while the contact is unassigned.
type ContactDetail struct {
	Contact
	Lead     Lead      `json:"lead"`
	Source   Source    `json:"source"`
	Operator *Operator `json:"operator"`
}

type LeadWithContacts struct {
	Lead
	Contacts []ContactDetail `json:"contacts"`
}

// Distribution maps source id to a per-operator contact count. The inner key
// is the operator id rendered as a string, or "null" for unassigned contacts.
type Distribution map[int64]map[string]int64
