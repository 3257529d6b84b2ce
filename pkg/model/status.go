package model

import "strings"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending: {BookingConfirmed, BookingRejected, BookingCancelled},
}

// BlockingStatuses are the booking statuses that occupy an object's calendar.
var BlockingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

func (s BookingStatus) IsBlocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "pending"
	ExchangeApproved ExchangeStatus = "approved"
	ExchangeRejected ExchangeStatus = "rejected"
)

var exchangeTransitions = map[ExchangeStatus][]ExchangeStatus{
	ExchangePending: {ExchangeApproved, ExchangeRejected},
}

func (s ExchangeStatus) Valid() bool {
	switch s {
	case ExchangePending, ExchangeApproved, ExchangeRejected:
		return true
	}
	return false
}

// IsDecided reports whether the exchange reached a terminal status.
func (s ExchangeStatus) IsDecided() bool {
	return s == ExchangeApproved || s == ExchangeRejected
}

func (s ExchangeStatus) CanTransitionTo(next ExchangeStatus) bool {
	for _, allowed := range exchangeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ExchangeAction string

const (
	ActionApprove       ExchangeAction = "approve"
	ActionReject        ExchangeAction = "reject"
	ActionShareContacts ExchangeAction = "share_contacts"
)

func ParseExchangeAction(s string) (ExchangeAction, bool) {
	action := ExchangeAction(strings.ToLower(strings.TrimSpace(s)))
	return action, action.Valid()
}

func (a ExchangeAction) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionShareContacts:
		return true
	}
	return false
}

// TargetStatus is the exchange status a deciding action leads to. share_contacts
// has none.
func (a ExchangeAction) TargetStatus() (ExchangeStatus, bool) {
	switch a {
	case ActionApprove:
		return ExchangeApproved, true
	case ActionReject:
		return ExchangeRejected, true
	}
	return "", false
}
