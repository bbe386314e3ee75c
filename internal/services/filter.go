package services

import (
	"strconv"
	"strings"

	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// Filter is the dashboard's combined filter state. All constraints are
// ANDed; empty multi-selects and a zero year bound mean "no constraint".
type Filter struct {
	// Search is a case-insensitive substring matched against the
	// application number or the drug name.
	Search   string
	YearFrom int
	YearTo   int
	Statuses []string
	Sponsors []string
	Drugs    []string
}

// Matches reports whether a submission passes every active constraint.
func (f Filter) Matches(s domain.Submission) bool {
	if f.YearFrom != 0 && s.SubmissionYear < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && s.SubmissionYear > f.YearTo {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, s.Status) {
		return false
	}
	if len(f.Sponsors) > 0 && !contains(f.Sponsors, s.Sponsor) {
		return false
	}
	if len(f.Drugs) > 0 && !contains(f.Drugs, s.DrugName) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.ApplicationNo), needle) &&
			!strings.Contains(strings.ToLower(s.DrugName), needle) {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseYear converts a year query parameter, returning 0 for "unset".
func ParseYear(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
