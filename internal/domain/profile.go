package domain

import (
	"strings"
	"time"
)

type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
	ProfileStatusBlocked  ProfileStatus = "blocked"

	// ProfileStatusNone is only ever derived for a session, never stored.
	ProfileStatusNone ProfileStatus = "no_profile"
)

// IsStored reports whether s is a status a profile record can hold.
func (s ProfileStatus) IsStored() bool {
	switch s {
	case ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected, ProfileStatusBlocked:
		return true
	}
	return false
}

func ParseProfileStatus(v string) (ProfileStatus, bool) {
	s := ProfileStatus(strings.ToLower(strings.TrimSpace(v)))
	return s, s.IsStored()
}

type Profile struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	Name            *string       `json:"name"`
	Phone           *string       `json:"phone"`
	GraduationYear  *int          `json:"graduationYear"`
	Degree          *string       `json:"degree"`
	Department      *string       `json:"department"`
	CurrentJob      *string       `json:"currentJob"`
	Company         *string       `json:"company"`
	Location        *string       `json:"location"`
	LinkedinURL     *string       `json:"linkedinUrl"`
	Bio             *string       `json:"bio"`
	ProfilePicture  *string       `json:"profilePicture"`
	Status          ProfileStatus `json:"status"`
	SubmittedAt     time.Time     `json:"submittedAt"`
	ReviewedAt      *time.Time    `json:"reviewedAt"`
	ReviewedBy      *string       `json:"reviewedBy"`
	RejectionReason *string       `json:"rejectionReason"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// ClearReview drops every field written by a moderation decision.
func (p *Profile) ClearReview() {
	p.ReviewedAt = nil
	p.ReviewedBy = nil
	p.RejectionReason = nil
}

// ProfileOwner is the identity data shown next to a profile in the review queue.
type ProfileOwner struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type ProfileWithOwner struct {
	Profile
	User *ProfileOwner `json:"user"`
}

// NormalizeEmail is applied to every email before it reaches a store so that
// profile, blocklist and identity lookups agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
