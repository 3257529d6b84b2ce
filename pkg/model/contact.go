package model

// ContactInfo is the typed contact payload attached to exchanges and shared
// between the two parties of a swap.
type ContactInfo struct {
	Name  string `json:"name" validate:"omitempty,max=120"`
	Phone string `json:"phone,omitempty" validate:"omitempty,e164"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

func (c *ContactInfo) IsEmpty() bool {
	return c == nil || (c.Name == "" && c.Phone == "" && c.Email == "")
}

// SharedContacts pairs the requester's contact with the counterpart's. It is
// fully derived from stored rows so repeated sharing yields the same value.
type SharedContacts struct {
	Requester   ContactInfo `json:"requester"`
	Counterpart ContactInfo `json:"counterpart"`
}

// ContactFromUser builds a contact card out of a directory record.
func ContactFromUser(u *User) ContactInfo {
	if u == nil {
		return ContactInfo{}
	}
	c := ContactInfo{Name: u.FullName, Email: u.Email}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c
}
