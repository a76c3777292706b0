package domain

import "time"

// Identity is an account authenticated by the external identity provider.
// Subject is the provider's stable user id; ID is ours.
type Identity struct {
	ID        string    `json:"id"`
	Subject   string    `json:"-"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Picture   *string   `json:"image"`
	ProfileID *string   `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IdentitySession is derived on every read and never stored.
type IdentitySession struct {
	User          *Identity     `json:"user"`
	Profile       *Profile      `json:"alumni,omitempty"`
	ProfileStatus ProfileStatus `json:"profileStatus"`
}
