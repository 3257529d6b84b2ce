package model

import "time"

type Booking struct {
	ID        int64         `json:"id"`
	ObjectID  int64         `json:"object_id"`
	UserID    int64         `json:"user_id"`
	Status    BookingStatus `json:"status"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
	Guests    int           `json:"guests"`
	Note      *string       `json:"note"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// BookingView is a booking joined with its guest and object for listings.
type BookingView struct {
	Booking
	UserName    *string `json:"user_name"`
	UserPhone   *string `json:"user_phone"`
	ObjectTitle *string `json:"object_title"`
}

type DeleteResult struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}
