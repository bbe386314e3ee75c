package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BipinP21/fda-submission-tracker/internal/codes"
	"github.com/BipinP21/fda-submission-tracker/internal/config"
	"github.com/BipinP21/fda-submission-tracker/internal/dataprocessing"
	"github.com/BipinP21/fda-submission-tracker/internal/exporter"
	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// ErrDatasetUnavailable indicates the merged workbook does not exist yet.
var ErrDatasetUnavailable = errors.New("merged dataset unavailable")

var (
	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fda_dataset_rows",
		Help: "Rows in the loaded merged dataset.",
	})
	datasetLoadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fda_dataset_load_timestamp_seconds",
		Help: "Unix time of the last dataset load.",
	})
)

// submissionDateLayouts are tried in order when parsing the workbook's
// Submission_Date column. Rows that match none are discarded at load time
// because every time-based view needs a real date.
var submissionDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

type dataset struct {
	records []domain.Submission
	modTime time.Time
	loaded  time.Time
	dropped int
}

// DashboardService loads the merged workbook and answers every dashboard
// query from the cached in-memory dataset. The cache is keyed by the
// workbook's modification time: a rewritten workbook is picked up on the
// next request, and Invalidate drops the cache explicitly.
type DashboardService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu    sync.RWMutex
	cache *dataset
}

// NewDashboardService creates the service. A nil logger falls back to
// slog.Default.
func NewDashboardService(cfg *config.Config, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

// Invalidate drops the cached dataset; the next request reloads from disk.
func (s *DashboardService) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// load returns the current dataset, reloading the workbook when its
// modification time changed since the cached load.
func (s *DashboardService) load(ctx context.Context) (*dataset, error) {
	path := s.cfg.MergedWorkbookPath()
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetUnavailable, path)
		}
		return nil, fmt.Errorf("stat merged workbook: %w", err)
	}

	s.mu.RLock()
	cached := s.cache
	s.mu.RUnlock()
	if cached != nil && cached.modTime.Equal(info.ModTime()) {
		return cached, nil
	}

	table, err := exporter.ReadWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("load merged workbook: %w", err)
	}

	ds := buildDataset(table, info.ModTime())

	s.mu.Lock()
	s.cache = ds
	s.mu.Unlock()

	datasetRows.Set(float64(len(ds.records)))
	datasetLoadTimestamp.Set(float64(ds.loaded.Unix()))

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(ds.records)),
		slog.Int("dropped_undated_rows", ds.dropped),
		slog.Time("workbook_mtime", ds.modTime))

	return ds, nil
}

// buildDataset applies the load-time normalizations: rows without a
// parseable date are dropped, missing Sponsor/DrugName become "Unknown",
// the Status vocabulary is applied, and the year is derived.
func buildDataset(table *dataprocessing.Table, modTime time.Time) *dataset {
	ds := &dataset{modTime: modTime, loaded: time.Now()}

	for _, row := range table.Rows {
		date, ok := parseSubmissionDate(table.Value(row, domain.ColSubmissionDate))
		if !ok {
			ds.dropped++
			continue
		}

		rec := domain.Submission{
			ApplicationNo:  table.Value(row, domain.ColApplicationNo),
			SubmissionType: table.Value(row, domain.ColSubmissionType),
			SubmissionNo:   table.Value(row, domain.ColSubmissionNo),
			Status:         codes.StatusV1.Apply(table.Value(row, domain.ColStatus)),
			SubmissionDate: date,
			ReviewPriority: table.Value(row, domain.ColReviewPriority),
			Sponsor:        table.Value(row, domain.ColSponsor),
			Form:           table.Value(row, domain.ColForm),
			Strength:       table.Value(row, domain.ColStrength),
			DrugName:       table.Value(row, domain.ColDrugName),
			SubmissionYear: date.Year(),
		}
		if rec.Sponsor == "" {
			rec.Sponsor = domain.UnknownValue
		}
		if rec.DrugName == "" {
			rec.DrugName = domain.UnknownValue
		}

		ds.records = append(ds.records, rec)
	}

	return ds
}

func parseSubmissionDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range submissionDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Submissions returns the filtered row set.
func (s *DashboardService) Submissions(ctx context.Context, f Filter) ([]domain.Submission, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Submission
	for _, rec := range ds.records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
