package domain

import (
	"fmt"
	"strings"
	"time"
)

type ModerationAction string

const (
	ModerationApprove ModerationAction = "approve"
	ModerationReject  ModerationAction = "reject"
	ModerationBlock   ModerationAction = "block"
	ModerationUnblock ModerationAction = "unblock"
)

func (a ModerationAction) IsValid() bool {
	_, ok := moderationSources[a]
	return ok
}

// moderationSources lists the statuses each action may be applied from. A nil
// set means any status.
var moderationSources = map[ModerationAction]map[ProfileStatus]bool{
	ModerationApprove: {
		ProfileStatusPending:  true,
		ProfileStatusRejected: true,
		ProfileStatusApproved: true,
	},
	ModerationReject: {
		ProfileStatusPending:  true,
		ProfileStatusApproved: true,
		ProfileStatusRejected: true,
	},
	ModerationBlock:   nil,
	ModerationUnblock: nil,
}

// ModerationTargets maps each action to the status it leaves the profile in.
var ModerationTargets = map[ModerationAction]ProfileStatus{
	ModerationApprove: ProfileStatusApproved,
	ModerationReject:  ProfileStatusRejected,
	ModerationBlock:   ProfileStatusBlocked,
	ModerationUnblock: ProfileStatusRejected,
}

// CanApply reports whether the action is legal from the given status.
func (a ModerationAction) CanApply(from ProfileStatus) bool {
	sources, ok := moderationSources[a]
	if !ok {
		return false
	}
	return sources == nil || sources[from]
}

// ApplyModeration mutates p for one moderation decision. It does not touch the
// blocklist; callers pair block and unblock with the matching blocklist write
// in the same transaction.
func ApplyModeration(p *Profile, action ModerationAction, actor, reason string, at time.Time) error {
	if !action.IsValid() {
		return fmt.Errorf("%w: unknown moderation action %q", ErrInvalidArgument, action)
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return fmt.Errorf("%w: moderator is required", ErrInvalidArgument)
	}
	reason = strings.TrimSpace(reason)
	if action == ModerationBlock && reason == "" {
		return fmt.Errorf("%w: a reason is required to block a profile", ErrInvalidArgument)
	}
	if !action.CanApply(p.Status) {
		if p.Status == ProfileStatusBlocked {
			return fmt.Errorf("%w: cannot %s a blocked profile, unblock the profile first", ErrInvalidArgument, action)
		}
		return fmt.Errorf("%w: cannot %s a profile in status %s", ErrInvalidArgument, action, p.Status)
	}

	reviewedAt := at.UTC()
	p.Status = ModerationTargets[action]
	p.ReviewedAt = &reviewedAt
	p.ReviewedBy = &actor

	switch action {
	case ModerationReject:
		if reason == "" {
			p.RejectionReason = nil
		} else {
			p.RejectionReason = &reason
		}
	case ModerationUnblock:
		p.RejectionReason = nil
	}
	return nil
}
