package services

import (
	"context"
	"sort"

	"github.com/BipinP21/fda-submission-tracker/internal/codes"
	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// Summary carries the dashboard's headline metrics for the filtered set
// plus the vocabularies the filter widgets are built from (computed over
// the whole dataset, not the filtered set).
type Summary struct {
	TotalSubmissions int `json:"total_submissions"`
	UniqueSponsors   int `json:"unique_sponsors"`
	ApprovedCount    int `json:"approved_count"`
	UniqueDrugs      int `json:"unique_drugs"`

	YearMin  int      `json:"year_min"`
	YearMax  int      `json:"year_max"`
	Statuses []string `json:"statuses"`
	Sponsors []string `json:"sponsors"`
	Drugs    []string `json:"drugs"`
}

// CountItem is one label/count pair in a frequency aggregate.
type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TrendPoint is one month bucket of the submission time series.
type TrendPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// GetSummary computes the headline metrics over the filtered set and the
// widget vocabularies over the full dataset.
func (s *DashboardService) GetSummary(ctx context.Context, f Filter) (*Summary, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	sponsors := make(map[string]bool)
	drugs := make(map[string]bool)
	for _, rec := range ds.records {
		if !f.Matches(rec) {
			continue
		}
		summary.TotalSubmissions++
		sponsors[rec.Sponsor] = true
		drugs[rec.DrugName] = true
		if rec.Status == codes.StatusApproved {
			summary.ApprovedCount++
		}
	}
	summary.UniqueSponsors = len(sponsors)
	summary.UniqueDrugs = len(drugs)

	allStatuses := make(map[string]bool)
	allSponsors := make(map[string]bool)
	allDrugs := make(map[string]bool)
	for _, rec := range ds.records {
		allStatuses[rec.Status] = true
		allSponsors[rec.Sponsor] = true
		allDrugs[rec.DrugName] = true
		if summary.YearMin == 0 || rec.SubmissionYear < summary.YearMin {
			summary.YearMin = rec.SubmissionYear
		}
		if rec.SubmissionYear > summary.YearMax {
			summary.YearMax = rec.SubmissionYear
		}
	}
	summary.Statuses = sortedKeys(allStatuses)
	summary.Sponsors = sortedKeys(allSponsors)
	summary.Drugs = sortedKeys(allDrugs)

	return summary, nil
}

// TopSponsors returns the most frequent sponsors in the filtered set,
// descending by count; ties break alphabetically for stable output.
func (s *DashboardService) TopSponsors(ctx context.Context, f Filter, limit int) ([]CountItem, error) {
	records, err := s.Submissions(ctx, f)
	if err != nil {
		return nil, err
	}

	items := frequency(records, func(rec domain.Submission) string { return rec.Sponsor })
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// MonthlyTrend buckets the filtered set by submission month, ascending.
func (s *DashboardService) MonthlyTrend(ctx context.Context, f Filter) ([]TrendPoint, error) {
	records, err := s.Submissions(ctx, f)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int)
	for _, rec := range records {
		buckets[rec.SubmissionDate.Format("2006-01")]++
	}

	points := make([]TrendPoint, 0, len(buckets))
	for month, count := range buckets {
		points = append(points, TrendPoint{Month: month, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points, nil
}

// StatusDistribution returns status frequencies over the filtered set.
func (s *DashboardService) StatusDistribution(ctx context.Context, f Filter) ([]CountItem, error) {
	records, err := s.Submissions(ctx, f)
	if err != nil {
		return nil, err
	}
	return sortedFrequency(records, func(rec domain.Submission) string { return rec.Status }), nil
}

// TypeBreakdown returns submission-type frequencies over the filtered set.
func (s *DashboardService) TypeBreakdown(ctx context.Context, f Filter) ([]CountItem, error) {
	records, err := s.Submissions(ctx, f)
	if err != nil {
		return nil, err
	}
	return sortedFrequency(records, func(rec domain.Submission) string { return rec.SubmissionType }), nil
}

func frequency(records []domain.Submission, key func(domain.Submission) string) []CountItem {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[key(rec)]++
	}
	items := make([]CountItem, 0, len(counts))
	for label, count := range counts {
		items = append(items, CountItem{Label: label, Count: count})
	}
	return items
}

func sortedFrequency(records []domain.Submission, key func(domain.Submission) string) []CountItem {
	items := frequency(records, key)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	return items
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
