package jobs

import (
	"context"
	"fmt"
	"sort"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
)

// AuditReport lists places where profile status and the blocklist disagree.
// Blocklist entries without any profile are expected and not reported.
type AuditReport struct {
	ProfilesMissingEntry []string // ids of blocked profiles with no blocklist entry
	EntriesNotBlocked    []string // blocklisted emails whose profile is not blocked
}

func (r AuditReport) Consistent() bool {
	return len(r.ProfilesMissingEntry) == 0 && len(r.EntriesNotBlocked) == 0
}

// BlocklistAudit compares every profile against the blocklist. It only reads.
func (jr *JobRunner) BlocklistAudit(ctx context.Context) (AuditReport, error) {
	var report AuditReport

	profiles, err := jr.repos.Profiles.List(ctx, "")
	if err != nil {
		return report, fmt.Errorf("failed to list profiles: %w", err)
	}
	entries, err := jr.repos.Blocklist.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list blocklist: %w", err)
	}

	blocked := make(map[string]bool, len(entries))
	for _, e := range entries {
		blocked[domain.NormalizeEmail(e.Email)] = true
	}

	statusByEmail := make(map[string]domain.ProfileStatus, len(profiles))
	for _, p := range profiles {
		email := domain.NormalizeEmail(p.Email)
		statusByEmail[email] = p.Status
		if p.Status == domain.ProfileStatusBlocked && !blocked[email] {
			report.ProfilesMissingEntry = append(report.ProfilesMissingEntry, p.ID)
		}
	}
	for email := range blocked {
		if status, ok := statusByEmail[email]; ok && status != domain.ProfileStatusBlocked {
			report.EntriesNotBlocked = append(report.EntriesNotBlocked, email)
		}
	}
	sort.Strings(report.ProfilesMissingEntry)
	sort.Strings(report.EntriesNotBlocked)

	return report, nil
}

// AuditBlocklist runs BlocklistAudit and logs what it finds.
func (jr *JobRunner) AuditBlocklist() {
	jr.runWithRecovery("AuditBlocklist", func() {
		log := logger.WithComponent("audit")

		report, err := jr.BlocklistAudit(context.Background())
		if err != nil {
			log.Error("Blocklist audit failed", "error", err)
			return
		}
		if report.Consistent() {
			log.Info("Blocklist consistent with profile status")
			return
		}
		for _, id := range report.ProfilesMissingEntry {
			log.Warn("Blocked profile has no blocklist entry", "profileID", id)
		}
		for _, email := range report.EntriesNotBlocked {
			log.Warn("Blocklisted email belongs to a profile that is not blocked", "email", email)
		}
	})
}
