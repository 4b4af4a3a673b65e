package http

// Request shapes of the public surface. Pointer fields mean "not provided";
// the omitempty rules only fire on present values.

type createLeadRequest struct {
	ExternalID *string `json:"external_id" validate:"omitempty,identifier,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
}

type updateLeadRequest struct {
	ExternalID *string `json:"external_id" validate:"omitempty,identifier,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
}

type createSourceRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type updateSourceRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// createOperatorRequest defaults is_active to true and load_limit to the
// service default when omitted.
type createOperatorRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	IsActive  *bool  `json:"is_active"`
	LoadLimit int    `json:"load_limit" validate:"omitempty,gte=1"`
}

type updateOperatorRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsActive  *bool   `json:"is_active"`
	LoadLimit *int    `json:"load_limit" validate:"omitempty,gte=1"`
}

type setWeightRequest struct {
	OperatorID int64 `json:"operator_id" validate:"required,gte=1"`
	Weight     int64 `json:"weight" validate:"omitempty,gte=1"`
}

type createContactRequest struct {
	ExternalID *string `json:"external_id" validate:"omitempty,identifier,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	SourceID   int64   `json:"source_id" validate:"required,gte=1"`
	Message    *string `json:"message" validate:"omitempty,max=2000"`
}

type updateContactRequest struct {
	IsActive   *bool   `json:"is_active"`
	Message    *string `json:"message" validate:"omitempty,max=2000"`
	OperatorID *int64  `json:"operator_id" validate:"omitempty,gte=1"`
}
