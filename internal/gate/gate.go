// Package gate decides whether a caller may reach a page. The same Decide
// function backs the edge middleware and the post-render guard endpoint.
package gate

import "alumni-directory-backend/internal/domain"

type Outcome string

const (
	Allow        Outcome = "allow"
	Redirect     Outcome = "redirect"
	RequireAdmin Outcome = "require_admin"
)

type Decision struct {
	Outcome    Outcome `json:"outcome"`
	RedirectTo string  `json:"redirectTo,omitempty"`
}

func allow() Decision { return Decision{Outcome: Allow} }

func redirect(to string) Decision { return Decision{Outcome: Redirect, RedirectTo: to} }

// Decide applies the routing rules in order. An empty status means the caller
// has no identity session.
func Decide(path string, status domain.ProfileStatus) Decision {
	path = clean(path)

	switch Classify(path) {
	case SecurityPublic:
		return allow()
	case SecurityAdmin:
		return Decision{Outcome: RequireAdmin}
	}

	if status == "" {
		return redirect(PathLogin)
	}

	if path == PathProfile {
		switch status {
		case domain.ProfileStatusApproved:
			return redirect(PathDashboard)
		case domain.ProfileStatusBlocked:
			return redirect(PathUnauthorized)
		default:
			return allow()
		}
	}

	switch status {
	case domain.ProfileStatusApproved:
		return allow()
	case domain.ProfileStatusBlocked:
		return redirect(PathUnauthorized)
	default:
		// no_profile, pending, rejected and anything unrecognised
		return redirect(PathProfile)
	}
}

// DecideAdmin resolves a RequireAdmin outcome once the admin session has been checked.
func DecideAdmin(path string, isAdmin bool) Decision {
	path = clean(path)
	if path == PathAdminLogin {
		if isAdmin {
			return redirect(PathAdminDefault)
		}
		return allow()
	}
	if !isAdmin {
		return redirect(PathAdminLogin)
	}
	return allow()
}
