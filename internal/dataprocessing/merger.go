package dataprocessing

import (
	"log/slog"
	"strings"

	"github.com/BipinP21/fda-submission-tracker/internal/codes"
	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// Column projections from the raw extract schemas to the merged schema.
var (
	submissionMappings = []ColumnMapping{
		{From: "ApplNo", To: domain.ColApplicationNo},
		{From: "SubmissionType", To: domain.ColSubmissionType},
		{From: "SubmissionNo", To: domain.ColSubmissionNo},
		{From: "SubmissionStatus", To: domain.ColStatus},
		{From: "SubmissionStatusDate", To: domain.ColSubmissionDate},
		{From: "ReviewPriority", To: domain.ColReviewPriority},
	}

	applicationMappings = []ColumnMapping{
		{From: "ApplNo", To: domain.ColApplicationNo},
		{From: "SponsorName", To: domain.ColSponsor},
	}

	productMappings = []ColumnMapping{
		{From: "ApplNo", To: domain.ColApplicationNo},
		{From: "Form", To: domain.ColForm},
		{From: "Strength", To: domain.ColStrength},
		{From: "DrugName", To: domain.ColDrugName},
	}

	productAggregateFields = []string{domain.ColForm, domain.ColStrength, domain.ColDrugName}
)

// MergeDiagnostics captures the observability counters the merger reports.
// They never alter control flow or the merged output.
type MergeDiagnostics struct {
	SubmissionRows          int
	DistinctSubmissionKeys  int
	DistinctApplicationKeys int
	DistinctProductKeys     int
	DuplicateApplicationKeys int
	DuplicateProductKeys     int
	RowsAfterApplications   int
	RowsAfterProducts       int
}

// MergeResult is the merged table plus its diagnostics.
type MergeResult struct {
	Table       *Table
	Diagnostics MergeDiagnostics
}

// Merger joins the three FDA extracts into one denormalized submission table.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger. A nil logger falls back to slog.Default.
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge runs the full pipeline: project and rename each extract, coerce the
// join key to uniform text, aggregate products to one row per application,
// left-join sponsor and product details onto every submission row, remap
// submission-type codes, and clean the Form separators.
//
// The output has exactly one row per input submission row. Duplicate join
// keys in Applications or aggregated Products are a data-quality condition:
// they are counted in the diagnostics but do not block the merge (the first
// occurrence wins).
func (m *Merger) Merge(submissions, applications, products *Table) (*MergeResult, error) {
	sub, err := Project(submissions, submissionMappings)
	if err != nil {
		return nil, err
	}
	apps, err := Project(applications, applicationMappings)
	if err != nil {
		return nil, err
	}
	prods, err := Project(products, productMappings)
	if err != nil {
		return nil, err
	}

	for _, t := range []*Table{sub, apps, prods} {
		coerceKey(t, domain.ColApplicationNo)
	}

	prods = AggregateByKey(prods, domain.ColApplicationNo, productAggregateFields)

	diag := MergeDiagnostics{SubmissionRows: sub.RowCount()}
	diag.DistinctSubmissionKeys = sub.KeyStatsFor(domain.ColApplicationNo).Distinct

	appStats := apps.KeyStatsFor(domain.ColApplicationNo)
	diag.DistinctApplicationKeys = appStats.Distinct
	diag.DuplicateApplicationKeys = appStats.Duplicates

	prodStats := prods.KeyStatsFor(domain.ColApplicationNo)
	diag.DistinctProductKeys = prodStats.Distinct
	diag.DuplicateProductKeys = prodStats.Duplicates

	m.logger.Info("join key statistics",
		slog.Int("distinct_submission_keys", diag.DistinctSubmissionKeys),
		slog.Int("distinct_application_keys", diag.DistinctApplicationKeys),
		slog.Int("distinct_product_keys", diag.DistinctProductKeys),
		slog.Int("duplicate_application_keys", diag.DuplicateApplicationKeys),
		slog.Int("duplicate_product_keys", diag.DuplicateProductKeys))
	if diag.DuplicateApplicationKeys > 0 || diag.DuplicateProductKeys > 0 {
		m.logger.Warn("duplicate join keys detected; first occurrence wins",
			slog.Int("applications", diag.DuplicateApplicationKeys),
			slog.Int("products", diag.DuplicateProductKeys))
	}

	merged := LeftJoin(sub, apps, domain.ColApplicationNo)
	diag.RowsAfterApplications = merged.RowCount()
	m.logger.Info("joined applications", slog.Int("rows", merged.RowCount()))

	merged = LeftJoin(merged, prods, domain.ColApplicationNo)
	diag.RowsAfterProducts = merged.RowCount()
	m.logger.Info("joined products", slog.Int("rows", merged.RowCount()))

	applyCodeTable(merged, domain.ColSubmissionType, codes.SubmissionTypeV1)
	cleanFormColumn(merged)

	merged.Name = "merged"
	return &MergeResult{Table: merged, Diagnostics: diag}, nil
}

// coerceKey normalizes the join key to trimmed text so a numerically-stored
// key in one extract still matches a text-stored key in another.
func coerceKey(t *Table, column string) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		if idx < len(row) {
			row[idx] = strings.TrimSpace(row[idx])
		}
	}
}

// AggregateByKey collapses a table to one row per key value. Each listed
// field becomes the ", "-joined concatenation of its distinct non-empty
// values, in first-seen order. Aggregating an already one-row-per-key table
// is a no-op, so the operation is idempotent.
func AggregateByKey(t *Table, key string, fields []string) *Table {
	type group struct {
		values map[string][]string
		seen   map[string]map[string]bool
	}

	var order []string
	groups := make(map[string]*group)

	for _, row := range t.Rows {
		k := t.Value(row, key)
		g, ok := groups[k]
		if !ok {
			g = &group{
				values: make(map[string][]string, len(fields)),
				seen:   make(map[string]map[string]bool, len(fields)),
			}
			for _, f := range fields {
				g.seen[f] = make(map[string]bool)
			}
			groups[k] = g
			order = append(order, k)
		}
		for _, f := range fields {
			v := t.Value(row, f)
			if v == "" || g.seen[f][v] {
				continue
			}
			g.seen[f][v] = true
			g.values[f] = append(g.values[f], v)
		}
	}

	columns := append([]string{key}, fields...)
	rows := make([][]string, 0, len(order))
	for _, k := range order {
		g := groups[k]
		row := make([]string, 0, len(columns))
		row = append(row, k)
		for _, f := range fields {
			row = append(row, strings.Join(g.values[f], ", "))
		}
		rows = append(rows, row)
	}

	return NewTable(t.Name, columns, rows)
}

// LeftJoin joins right onto left by the named key, preserving every left
// row. Unmatched rows get empty cells for the right-hand columns. When the
// right table repeats a key, the first occurrence wins so the join never
// multiplies left rows.
func LeftJoin(left, right *Table, key string) *Table {
	var rightCols []string
	var rightIdx []int
	for i, col := range right.Columns {
		if col == key {
			continue
		}
		rightCols = append(rightCols, col)
		rightIdx = append(rightIdx, i)
	}

	lookup := make(map[string][]string, right.RowCount())
	for _, row := range right.Rows {
		k := right.Value(row, key)
		if _, exists := lookup[k]; !exists {
			lookup[k] = row
		}
	}

	columns := append(append([]string{}, left.Columns...), rightCols...)
	rows := make([][]string, 0, left.RowCount())
	for _, lrow := range left.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, lrow...)
		for len(row) < len(left.Columns) {
			row = append(row, "")
		}
		if match, ok := lookup[left.Value(lrow, key)]; ok {
			for _, i := range rightIdx {
				if i < len(match) {
					row = append(row, match[i])
				} else {
					row = append(row, "")
				}
			}
		} else {
			for range rightIdx {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return NewTable(left.Name, columns, rows)
}

func applyCodeTable(t *Table, column string, table codes.Table) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		if idx < len(row) {
			row[idx] = table.Apply(row[idx])
		}
	}
}

// cleanFormColumn rewrites the Form field for readability: missing values
// become empty strings and the raw ";" separators become " / ".
func cleanFormColumn(t *Table) {
	idx, ok := t.ColumnIndex(domain.ColForm)
	if !ok {
		return
	}
	for _, row := range t.Rows {
		if idx < len(row) {
			row[idx] = strings.ReplaceAll(row[idx], ";", " / ")
		}
	}
}
