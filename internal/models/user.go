package models

import "strings"

type User struct {
	Identity
	Name      string `json:"name" schema:"name" validate:"required"`
	Email     string `json:"email" schema:"email" validate:"required"`
	Phone     string `json:"phone" schema:"phone" validate:"required"`
	Password  string `json:"password,omitempty" schema:"password"`
	IsAdmin   bool   `json:"isAdmin" schema:"isAdmin"`
	Street    string `json:"street" schema:"street"`
	Apartment string `json:"apartment" schema:"apartment"`
	Zip       string `json:"zip" schema:"zip"`
	City      string `json:"city" schema:"city"`
	Country   string `json:"country" schema:"country"`
}

// Address joins the postal fields the way the users table shows them.
func (u User) Address() string {
	return strings.Join([]string{u.Street, u.Apartment, u.City, u.Country}, ", ")
}
