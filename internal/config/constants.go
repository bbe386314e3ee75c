package config

// Application constants for the FDA submission tracker.
const (
	AppName    = "FDA Submission Tracker"
	AppVersion = "1.0.0"

	// EnvPrefix is the envconfig prefix: FDA_SERVER_PORT, FDA_DATA_DIR, ...
	EnvPrefix = "FDA"

	// DefaultConfigFile is the optional YAML overlay next to the binary.
	DefaultConfigFile = "config.yaml"

	// Fixed-name source extracts read from the data directory.
	SubmissionsFile  = "Submissions.txt"
	ApplicationsFile = "Applications.txt"
	ProductsFile     = "Products.txt"

	// MergedWorkbookFile is the merger's fixed-name output, written to the
	// same data directory and consumed read-only by the dashboard.
	MergedWorkbookFile = "fda_submissions_merged.xlsx"

	// ExportFileName is the dashboard's filtered-set CSV download name.
	ExportFileName = "filtered_fda_submissions.csv"
)
