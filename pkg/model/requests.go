package model

// Request bodies use the camelCase keys the web client sends.

type CreateBookingRequest struct {
	ObjectID  *int64  `json:"objectId" validate:"required,gt=0"`
	UserID    *int64  `json:"userId" validate:"required,gt=0"`
	StartDate Date    `json:"startDate"`
	EndDate   Date    `json:"endDate"`
	Guests    *int    `json:"guests" validate:"omitempty,min=1,max=50"`
	Note      *string `json:"note" validate:"omitempty,max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status *string `json:"status" validate:"required"`
}

type CreateExchangeRequest struct {
	UserID         *int64       `json:"userId" validate:"required,gt=0"`
	BaseBookingID  *int64       `json:"baseBookingId" validate:"required,gt=0"`
	TargetObjectID *int64       `json:"targetObjectId" validate:"required,gt=0"`
	StartDate      Date         `json:"startDate"`
	EndDate        Date         `json:"endDate"`
	Message        *string      `json:"message" validate:"omitempty,max=2000"`
	Contact        *ContactInfo `json:"contact"`
}

type DecideExchangeRequest struct {
	Action *string `json:"action" validate:"required"`
}

// CreateObjectRequest keeps the snake_case keys of the listing form.
type CreateObjectRequest struct {
	OwnerID      *int64   `json:"owner_id" validate:"omitempty,gt=0"`
	Title        string   `json:"title" validate:"required,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Images       []string `json:"images" validate:"omitempty,max=6,dive,url"`
	OwnerName    *string  `json:"owner_name" validate:"omitempty,max=200"`
	OwnerContact *string  `json:"owner_contact" validate:"omitempty,max=200"`
	Address      *string  `json:"address" validate:"omitempty,max=500"`
	Area         *float64 `json:"area" validate:"omitempty,gte=0"`
	Rooms        *int     `json:"rooms" validate:"omitempty,gte=0,lte=100"`
	Share        *string  `json:"share" validate:"omitempty,max=100"`
}
