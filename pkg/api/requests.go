package api

// Input shapes of the public surface. Pointer fields in update types follow
// patch semantics: nil means "leave unchanged".

type LeadCreate struct {
	ExternalID *string `json:"external_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
}

type LeadUpdate struct {
	ExternalID *string `json:"external_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
}

type SourceCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type SourceUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type OperatorCreate struct {
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	LoadLimit int    `json:"load_limit"`
}

type OperatorUpdate struct {
	Name      *string `json:"name"`
	IsActive  *bool   `json:"is_active"`
	LoadLimit *int    `json:"load_limit"`
}

type WeightSet struct {
	OperatorID int64 `json:"operator_id"`
	Weight     int64 `json:"weight"`
}

// ContactCreate carries the lead-matching identifiers alongside the source
// and message; the service resolves the lead and picks the operator.
type ContactCreate struct {
	ExternalID *string `json:"external_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	SourceID   int64   `json:"source_id"`
	Message    *string `json:"message"`
}

type ContactUpdate struct {
	IsActive   *bool   `json:"is_active"`
	Message    *string `json:"message"`
	OperatorID *int64  `json:"operator_id"`
}
