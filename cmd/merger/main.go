// The merger reads the three fixed-name FDA extracts from the data
// directory, joins them into one denormalized submission table, and writes
// the merged workbook back to the same directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
	"github.com/BipinP21/fda-submission-tracker/internal/dataprocessing"
	"github.com/BipinP21/fda-submission-tracker/internal/exporter"
	"github.com/BipinP21/fda-submission-tracker/internal/infrastructure"
	"github.com/BipinP21/fda-submission-tracker/internal/validation"
)

func main() {
	dataDir := flag.String("data", "", "data directory holding the source extracts (defaults to the configured data dir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	logger.Info("Starting FDA submission merge",
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("output", cfg.MergedWorkbookPath()))

	validator := validation.NewExtractValidator(logger)
	if err := validator.ValidateDataDirectory(cfg); err != nil {
		logger.Error("Preflight validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(cfg.Data.Dir); err != nil {
		logger.Error("Preflight validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		reportFailure(logger, err)
		os.Exit(1)
	}

	fmt.Printf("Merged workbook saved to %s\n", cfg.MergedWorkbookPath())
}

// run executes the merge pipeline. On any error the previous output file
// is left untouched.
func run(cfg *config.Config, logger *slog.Logger) error {
	submissions, subReport, err := dataprocessing.LoadTable(cfg.SubmissionsPath(), dataprocessing.LoadOptions{})
	if err != nil {
		return err
	}
	applications, appReport, err := dataprocessing.LoadTable(cfg.ApplicationsPath(), dataprocessing.LoadOptions{})
	if err != nil {
		return err
	}
	products, prodReport, err := dataprocessing.LoadTable(cfg.ProductsPath(), dataprocessing.LoadOptions{SkipMalformedLines: true})
	if err != nil {
		return err
	}

	for _, report := range []*dataprocessing.LoadReport{subReport, appReport, prodReport} {
		fmt.Printf("%s columns: [%s] (%d rows)\n", report.File, strings.Join(report.Columns, ", "), report.Rows)
	}
	if prodReport.SkippedLines > 0 {
		logger.Warn("Skipped malformed product lines",
			slog.String("file", prodReport.File),
			slog.Int("skipped", prodReport.SkippedLines))
		fmt.Printf("Skipped %d malformed lines in %s\n", prodReport.SkippedLines, prodReport.File)
	}

	result, err := dataprocessing.NewMerger(logger).Merge(submissions, applications, products)
	if err != nil {
		return err
	}

	diag := result.Diagnostics
	fmt.Printf("Unique Application_No in Submissions: %d\n", diag.DistinctSubmissionKeys)
	fmt.Printf("Unique Application_No in Applications: %d\n", diag.DistinctApplicationKeys)
	fmt.Printf("Unique Application_No in Products: %d\n", diag.DistinctProductKeys)
	fmt.Printf("Duplicate Application_No in Applications: %d\n", diag.DuplicateApplicationKeys)
	fmt.Printf("Duplicate Application_No in Products: %d\n", diag.DuplicateProductKeys)
	fmt.Printf("Rows after merging with Applications: %d\n", diag.RowsAfterApplications)
	fmt.Printf("Merged rows: %d\n", diag.RowsAfterProducts)

	if err := exporter.WriteWorkbook(cfg.MergedWorkbookPath(), result.Table); err != nil {
		return err
	}

	logger.Info("Merge complete",
		slog.Int("rows", result.Table.RowCount()),
		slog.String("output", cfg.MergedWorkbookPath()))
	return nil
}

// reportFailure logs the failure with a message matching its category.
func reportFailure(logger *slog.Logger, err error) {
	var parseErr *dataprocessing.ParseError
	var missingCol *dataprocessing.MissingColumnError

	switch {
	case errors.Is(err, dataprocessing.ErrFileNotFound):
		logger.Error("File not found", slog.String("error", err.Error()))
	case errors.As(err, &parseErr):
		logger.Error("Parsing issue", slog.String("error", err.Error()))
	case errors.As(err, &missingCol):
		logger.Error("Column not found", slog.String("error", err.Error()))
	default:
		logger.Error("Unexpected error", slog.String("error", err.Error()))
	}
}
