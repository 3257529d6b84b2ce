package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Status    *string   `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Object struct {
	ID           int64     `json:"id"`
	OwnerID      *int64    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Images       []string  `json:"images"`
	OwnerName    *string   `json:"owner_name"`
	OwnerContact *string   `json:"owner_contact"`
	Address      *string   `json:"address"`
	Area         *float64  `json:"area"`
	Rooms        *int      `json:"rooms"`
	Share        *string   `json:"share"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o *Object) IsOwnedBy(userID int64) bool {
	return o.OwnerID != nil && *o.OwnerID == userID
}
