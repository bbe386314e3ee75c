// Package codes holds the named, versioned lookup tables for the coded
// fields of the FDA extracts. Each coded field has exactly one table and
// each table is applied at exactly one stage of the pipeline; nothing else
// in the repository declares a code-to-label mapping.
//
// Note that SubmissionType and Status are distinct vocabularies even though
// both contain the literal code "AP" ("Abbreviated NDA" vs "Approved").
// Keeping them in separate tables with separate stages is what prevents the
// two from being conflated.
package codes

// Table is an immutable code-to-label lookup for one coded field.
type Table struct {
	name    string
	version string
	labels  map[string]string
}

// NewTable builds a lookup table. The labels map is copied.
func NewTable(name, version string, labels map[string]string) Table {
	copied := make(map[string]string, len(labels))
	for code, label := range labels {
		copied[code] = label
	}
	return Table{name: name, version: version, labels: copied}
}

// Name returns the coded field this table applies to.
func (t Table) Name() string { return t.name }

// Version returns the table revision identifier.
func (t Table) Version() string { return t.version }

// Apply maps a code to its label. Codes outside the vocabulary pass through
// unchanged, including the empty string.
func (t Table) Apply(code string) string {
	if label, ok := t.labels[code]; ok {
		return label
	}
	return code
}

// Len returns the vocabulary size.
func (t Table) Len() int { return len(t.labels) }

// SubmissionTypeV1 is the Submission_Type vocabulary, applied once by the
// merger before the workbook is written.
var SubmissionTypeV1 = NewTable("Submission_Type", "v1", map[string]string{
	"AP":    "Abbreviated NDA",
	"TP":    "Therapeutic",
	"ORIG":  "Original",
	"SUPPL": "Supplemental",
})

// StatusV1 is the Status vocabulary, applied once by the dashboard when the
// merged workbook is loaded. The merger writes Status codes through as-is.
var StatusV1 = NewTable("Status", "v1", map[string]string{
	"AP": "Approved",
	"TA": "Tentative Approval",
})

// StatusApproved is the label the dashboard counts as an approval.
const StatusApproved = "Approved"
