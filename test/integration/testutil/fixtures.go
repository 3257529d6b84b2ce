package testutil

import (
	"net/http"
	"testing"

	"swapstay/pkg/model"
)

type BookingBuilder struct {
	req model.CreateBookingRequest
}

func NewBookingBuilder(objectID, userID int64, start, end string) *BookingBuilder {
	return &BookingBuilder{
		req: model.CreateBookingRequest{
			ObjectID:  &objectID,
			UserID:    &userID,
			StartDate: model.MustParseDate(start),
			EndDate:   model.MustParseDate(end),
		},
	}
}

func (b *BookingBuilder) WithGuests(n int) *BookingBuilder {
	b.req.Guests = &n
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.req.Note = &note
	return b
}

func (b *BookingBuilder) Build() model.CreateBookingRequest {
	return b.req
}

type ExchangeBuilder struct {
	req model.CreateExchangeRequest
}

func NewExchangeBuilder(userID, baseBookingID, targetObjectID int64, start, end string) *ExchangeBuilder {
	return &ExchangeBuilder{
		req: model.CreateExchangeRequest{
			UserID:         &userID,
			BaseBookingID:  &baseBookingID,
			TargetObjectID: &targetObjectID,
			StartDate:      model.MustParseDate(start),
			EndDate:        model.MustParseDate(end),
		},
	}
}

func (b *ExchangeBuilder) WithMessage(msg string) *ExchangeBuilder {
	b.req.Message = &msg
	return b
}

func (b *ExchangeBuilder) WithContact(c model.ContactInfo) *ExchangeBuilder {
	b.req.Contact = &c
	return b
}

func (b *ExchangeBuilder) Build() model.CreateExchangeRequest {
	return b.req
}

// CreateObject lists an object through the API.
func CreateObject(t *testing.T, c *Client, ownerID int64, title string) model.Object {
	t.Helper()
	resp := c.POST(t, "/api/objects", model.CreateObjectRequest{OwnerID: &ownerID, Title: title})
	AssertStatusCode(t, resp, http.StatusCreated)

	var obj model.Object
	Decode(t, resp, &obj)
	return obj
}

func CreateBooking(t *testing.T, c *Client, req model.CreateBookingRequest) model.Booking {
	t.Helper()
	resp := c.POST(t, "/api/bookings", req)
	AssertStatusCode(t, resp, http.StatusCreated)

	var b model.Booking
	Decode(t, resp, &b)
	return b
}

func SetBookingStatus(t *testing.T, c *Client, id int64, status model.BookingStatus) model.Booking {
	t.Helper()
	resp := c.PATCH(t, Path("/api/bookings/%d", id), map[string]string{"status": string(status)})
	AssertStatusCode(t, resp, http.StatusOK)

	var b model.Booking
	Decode(t, resp, &b)
	return b
}
