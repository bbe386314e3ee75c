// Package validation provides preflight checks for the merge pipeline so
// that missing or unreadable source extracts are reported before any work
// starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
)

// ExtractValidator checks the data directory and source extracts before a
// merge run.
type ExtractValidator struct {
	logger *slog.Logger
}

// NewExtractValidator creates a new extract validator.
func NewExtractValidator(logger *slog.Logger) *ExtractValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractValidator{logger: logger}
}

// ValidateDataDirectory validates that the data directory exists and that
// every source extract is present, readable and non-empty.
func (v *ExtractValidator) ValidateDataDirectory(cfg *config.Config) error {
	info, err := os.Stat(cfg.Data.Dir)
	if os.IsNotExist(err) {
		v.logger.Error("Data directory does not exist",
			slog.String("directory", cfg.Data.Dir))
		return fmt.Errorf("data directory %s does not exist", cfg.Data.Dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", cfg.Data.Dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Data path is not a directory",
			slog.String("path", cfg.Data.Dir))
		return fmt.Errorf("%s is not a directory", cfg.Data.Dir)
	}

	for _, path := range []string{cfg.SubmissionsPath(), cfg.ApplicationsPath(), cfg.ProductsPath()} {
		if err := v.ValidateExtract(path); err != nil {
			return err
		}
	}

	v.logger.Info("Data directory validated",
		slog.String("directory", cfg.Data.Dir))
	return nil
}

// ValidateExtract checks that a single extract file exists, is a regular
// file, is readable and has content.
func (v *ExtractValidator) ValidateExtract(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Extract does not exist",
			slog.String("file", path))
		return fmt.Errorf("extract %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat extract %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Extract path is a directory",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		v.logger.Error("Extract is empty",
			slog.String("file", path))
		return fmt.Errorf("extract %s is empty", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Extract is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("extract %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Extract validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the directory for the merged workbook
// exists and is writable.
func (v *ExtractValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
