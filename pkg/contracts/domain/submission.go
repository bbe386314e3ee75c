package domain

import (
	"time"
)

// Submission represents one merged FDA submission row as loaded by the
// dashboard: a regulatory filing event joined with its application sponsor
// and aggregated product details.
type Submission struct {
	ApplicationNo  string    `json:"application_no"`
	SubmissionType string    `json:"submission_type"`
	SubmissionNo   string    `json:"submission_no"`
	Status         string    `json:"status"`
	SubmissionDate time.Time `json:"submission_date"`
	ReviewPriority string    `json:"review_priority"`
	Sponsor        string    `json:"sponsor"`
	Form           string    `json:"form"`
	Strength       string    `json:"strength"`
	DrugName       string    `json:"drug_name"`
	SubmissionYear int       `json:"submission_year"`
}

// Merged workbook column names, in sheet order. The merger writes them and
// the dashboard reads them back; both sides key off these names rather than
// column positions.
const (
	ColApplicationNo  = "Application_No"
	ColSubmissionType = "Submission_Type"
	ColSubmissionNo   = "Submission_No"
	ColStatus         = "Status"
	ColSubmissionDate = "Submission_Date"
	ColReviewPriority = "ReviewPriority"
	ColSponsor        = "Sponsor"
	ColForm           = "Form"
	ColStrength       = "Strength"
	ColDrugName       = "DrugName"
)

// MergedColumns returns the merged workbook header in sheet order.
func MergedColumns() []string {
	return []string{
		ColApplicationNo,
		ColSubmissionType,
		ColSubmissionNo,
		ColStatus,
		ColSubmissionDate,
		ColReviewPriority,
		ColSponsor,
		ColForm,
		ColStrength,
		ColDrugName,
	}
}

// UnknownValue is the sentinel the dashboard substitutes for a missing
// Sponsor or DrugName so the filter vocabularies stay closed.
const UnknownValue = "Unknown"

// Row renders the submission as a workbook/CSV row in MergedColumns order.
func (s Submission) Row(dateFormat string) []string {
	return []string{
		s.ApplicationNo,
		s.SubmissionType,
		s.SubmissionNo,
		s.Status,
		s.SubmissionDate.Format(dateFormat),
		s.ReviewPriority,
		s.Sponsor,
		s.Form,
		s.Strength,
		s.DrugName,
	}
}
