package domain

import "time"

// BlocklistEntry bars an email from signing in. It exists exactly while the
// profile owning the email is in the blocked state.
type BlocklistEntry struct {
	Email     string    `json:"email"`
	BlockedBy string    `json:"blockedBy"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
