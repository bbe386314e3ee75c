package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
	"github.com/BipinP21/fda-submission-tracker/internal/dataprocessing"
	"github.com/BipinP21/fda-submission-tracker/internal/exporter"
	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// mergedRow builds a workbook row in MergedColumns order.
func mergedRow(applNo, subType, subNo, status, date, priority, sponsor, form, strength, drug string) []string {
	return []string{applNo, subType, subNo, status, date, priority, sponsor, form, strength, drug}
}

func writeWorkbook(t *testing.T, cfg *config.Config, rows [][]string) {
	t.Helper()
	table := dataprocessing.NewTable("merged", domain.MergedColumns(), rows)
	require.NoError(t, exporter.WriteWorkbook(cfg.MergedWorkbookPath(), table))
}

func newTestService(t *testing.T, rows [][]string) (*DashboardService, *config.Config) {
	t.Helper()
	cfg := &config.Config{Data: config.DataConfig{Dir: t.TempDir()}}
	writeWorkbook(t, cfg, rows)
	return NewDashboardService(cfg, nil), cfg
}

func defaultRows() [][]string {
	return [][]string{
		mergedRow("12345", "Supplemental", "3", "AP", "2004-09-20 00:00:00", "STANDARD", "Acme", "TABLET / ORAL", "10MG", "DrugX"),
		mergedRow("67890", "Original", "1", "TA", "2005-01-10 00:00:00", "PRIORITY", "Globex", "CAPSULE", "20MG", "DrugY"),
		mergedRow("67890", "Original", "2", "AP", "2005-02-15 00:00:00", "STANDARD", "Globex", "CAPSULE", "20MG", "DrugY"),
		mergedRow("55555", "Original", "1", "RL", "2006-07-01 00:00:00", "", "", "", "", ""),
		mergedRow("44444", "Original", "1", "AP", "not-a-date", "", "Initech", "", "", "DrugZ"),
	}
}

func TestLoadNormalizations(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())

	records, err := svc.Submissions(context.Background(), Filter{})
	require.NoError(t, err)

	// The undated row is discarded at load time.
	require.Len(t, records, 4)

	byAppl := make(map[string]domain.Submission)
	for _, rec := range records {
		byAppl[rec.ApplicationNo+"/"+rec.SubmissionNo] = rec
	}

	// Status vocabulary applied at load: AP -> Approved, TA -> Tentative
	// Approval, unknown codes pass through.
	assert.Equal(t, "Approved", byAppl["12345/3"].Status)
	assert.Equal(t, "Tentative Approval", byAppl["67890/1"].Status)
	assert.Equal(t, "RL", byAppl["55555/1"].Status)

	// Missing Sponsor/DrugName become the Unknown sentinel.
	assert.Equal(t, domain.UnknownValue, byAppl["55555/1"].Sponsor)
	assert.Equal(t, domain.UnknownValue, byAppl["55555/1"].DrugName)

	// Year derived from the parsed date.
	assert.Equal(t, 2004, byAppl["12345/3"].SubmissionYear)
}

func TestSubmissionsFiltering(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "no filter", filter: Filter{}, want: 4},
		{name: "search matches application number", filter: Filter{Search: "123"}, want: 1},
		{name: "search matches drug name case-insensitively", filter: Filter{Search: "drugy"}, want: 2},
		{name: "search matches either field", filter: Filter{Search: "678"}, want: 2},
		{name: "year range", filter: Filter{YearFrom: 2005, YearTo: 2005}, want: 2},
		{name: "year lower bound only", filter: Filter{YearFrom: 2006}, want: 1},
		{name: "status multi-select", filter: Filter{Statuses: []string{"Approved"}}, want: 2},
		{name: "sponsor multi-select", filter: Filter{Sponsors: []string{"Globex"}}, want: 2},
		{name: "drug multi-select includes unknown sentinel", filter: Filter{Drugs: []string{domain.UnknownValue}}, want: 1},
		{name: "combined constraints", filter: Filter{Sponsors: []string{"Globex"}, Statuses: []string{"Approved"}}, want: 1},
		{name: "no match", filter: Filter{Search: "zzz"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := svc.Submissions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestGetSummary(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())

	summary, err := svc.GetSummary(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalSubmissions)
	assert.Equal(t, 3, summary.UniqueSponsors) // Acme, Globex, Unknown
	assert.Equal(t, 2, summary.ApprovedCount)
	assert.Equal(t, 3, summary.UniqueDrugs) // DrugX, DrugY, Unknown
	assert.Equal(t, 2004, summary.YearMin)
	assert.Equal(t, 2006, summary.YearMax)
	assert.Equal(t, []string{"Approved", "RL", "Tentative Approval"}, summary.Statuses)
	assert.Contains(t, summary.Sponsors, "Acme")
	assert.Contains(t, summary.Drugs, domain.UnknownValue)
}

func TestGetSummaryFilteredCountsFullVocabulary(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())

	summary, err := svc.GetSummary(context.Background(), Filter{Sponsors: []string{"Acme"}})
	require.NoError(t, err)

	// KPIs reflect the filter; the widget vocabularies do not.
	assert.Equal(t, 1, summary.TotalSubmissions)
	assert.Equal(t, 1, summary.UniqueSponsors)
	assert.Contains(t, summary.Sponsors, "Globex")
}

func TestTopSponsors(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())

	items, err := svc.TopSponsors(context.Background(), Filter{}, 2)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, CountItem{Label: "Globex", Count: 2}, items[0])
	assert.Equal(t, CountItem{Label: "Acme", Count: 1}, items[1])
}

func TestMonthlyTrend(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())

	points, err := svc.MonthlyTrend(context.Background(), Filter{})
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, TrendPoint{Month: "2004-09", Count: 1}, points[0])
	assert.Equal(t, TrendPoint{Month: "2005-01", Count: 1}, points[1])
	assert.Equal(t, TrendPoint{Month: "2005-02", Count: 1}, points[2])
	assert.Equal(t, TrendPoint{Month: "2006-07", Count: 1}, points[3])
}

func TestStatusDistributionAndTypeBreakdown(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())
	ctx := context.Background()

	statuses, err := svc.StatusDistribution(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, CountItem{Label: "Approved", Count: 2}, statuses[0])

	types, err := svc.TypeBreakdown(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, CountItem{Label: "Original", Count: 3}, types[0])
	assert.Equal(t, CountItem{Label: "Supplemental", Count: 1}, types[1])
}

func TestDatasetUnavailable(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Dir: t.TempDir()}}
	svc := NewDashboardService(cfg, nil)

	_, err := svc.Submissions(context.Background(), Filter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestCacheReloadsOnModTimeChange(t *testing.T) {
	svc, cfg := newTestService(t, defaultRows())
	ctx := context.Background()

	records, err := svc.Submissions(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Rewrite the workbook with a single row and force a distinct mtime.
	writeWorkbook(t, cfg, [][]string{
		mergedRow("11111", "Original", "1", "AP", "2010-05-05 00:00:00", "", "NewCo", "", "", "DrugN"),
	})
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(cfg.MergedWorkbookPath(), future, future))

	records, err = svc.Submissions(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "11111", records[0].ApplicationNo)
}

func TestInvalidate(t *testing.T) {
	svc, _ := newTestService(t, defaultRows())
	ctx := context.Background()

	_, err := svc.Submissions(ctx, Filter{})
	require.NoError(t, err)

	svc.Invalidate()

	// Reload after invalidation still serves the same data.
	records, err := svc.Submissions(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestParseSubmissionDate(t *testing.T) {
	tests := []struct {
		raw  string
		ok   bool
		year int
	}{
		{"2004-09-20 00:00:00", true, 2004},
		{"2004-09-20", true, 2004},
		{"9/20/2004", true, 2004},
		{"", false, 0},
		{"garbage", false, 0},
	}
	for _, tt := range tests {
		date, ok := parseSubmissionDate(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.year, date.Year(), tt.raw)
		}
	}
}
