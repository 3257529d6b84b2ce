package model

import "time"

type Exchange struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	BaseBookingID  int64           `json:"base_booking_id"`
	TargetObjectID int64           `json:"target_object_id"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date"`
	Nights         int             `json:"nights"`
	Message        *string         `json:"message"`
	Status         ExchangeStatus  `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	DecidedAt      *time.Time      `json:"decided_at"`
	Contact        *ContactInfo    `json:"contact"`
	SharedContacts *SharedContacts `json:"shared_contacts"`
	TargetOwnerID  *int64          `json:"target_owner_id"`
}

func (e *Exchange) Range() DateRange {
	return DateRange{Start: e.StartDate, End: e.EndDate}
}

// ExchangeView is an exchange joined with the titles of both objects involved.
type ExchangeView struct {
	Exchange
	BaseObjectID      *int64  `json:"base_object_id"`
	BaseObjectTitle   *string `json:"base_object_title"`
	TargetObjectTitle *string `json:"target_object_title"`
}

// DecisionResult is returned by the decision endpoint. Bookings are only set
// for an approval.
type DecisionResult struct {
	Exchange          *Exchange `json:"exchange"`
	Booking           *Booking  `json:"booking,omitempty"`
	ReciprocalBooking *Booking  `json:"reciprocal_booking,omitempty"`
}
