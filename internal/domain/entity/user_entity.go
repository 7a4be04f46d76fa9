package entity

import "cloud.google.com/go/civil"

// User is the aggregate root for the user domain.
// Email, Address and Phone are owned by the user: they are written, replaced
// and deleted together with it and are never reachable on their own.
type User struct {
	ID        int        `json:"id"`
	Email     *Email     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Address   *Address   `json:"address"`
	Phone     *Phone     `json:"phone"`
	Birthdate civil.Date `json:"birthdate"`
}

type Email struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type Address struct {
	ID      int    `json:"id"`
	Country string `json:"country"`
	City    string `json:"city"`
	Street  string `json:"street"`
	House   string `json:"house"`
}

type Phone struct {
	ID    int    `json:"id"`
	Phone string `json:"phone"`
}

// Clone returns a deep copy so stores and caches never share owned records
// with callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		e := *u.Email
		c.Email = &e
	}
	if u.Address != nil {
		a := *u.Address
		c.Address = &a
	}
	if u.Phone != nil {
		p := *u.Phone
		c.Phone = &p
	}
	return &c
}
