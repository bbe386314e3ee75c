package dataprocessing

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LoadOptions configures how a source extract is read.
type LoadOptions struct {
	// SkipMalformedLines drops lines with more fields than the header
	// instead of failing the load. Skipped lines are counted in the
	// LoadReport so dirty data is reported rather than silently discarded.
	SkipMalformedLines bool
}

// LoadReport summarizes one extract load for diagnostics.
type LoadReport struct {
	File         string
	Columns      []string
	Rows         int
	SkippedLines int
}

// LoadTable reads a tab-separated extract decoded as Latin-1. The FDA
// extracts are not guaranteed UTF-8, and Latin-1 decoding is total, so no
// byte sequence can fail the decode step.
//
// Rows shorter than the header are padded with empty cells, matching how
// the extracts encode trailing missing fields. Rows wider than the header
// are malformed: they fail the load with a ParseError unless
// SkipMalformedLines is set, in which case they are counted and dropped.
func LoadTable(path string, opts LoadOptions) (*Table, *LoadReport, error) {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		return nil, nil, &ParseError{File: name, Reason: "empty file"}
	}

	header := splitLine(scanner.Text())
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return nil, nil, &ParseError{File: name, Reason: "empty header row"}
	}

	var rows [][]string
	skipped := 0
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := splitLine(line)
		if len(fields) > len(header) {
			if opts.SkipMalformedLines {
				skipped++
				continue
			}
			return nil, nil, &ParseError{
				File:   name,
				Line:   lineNo,
				Reason: fmt.Sprintf("expected %d fields, saw %d", len(header), len(fields)),
			}
		}
		for len(fields) < len(header) {
			fields = append(fields, "")
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	report := &LoadReport{
		File:         name,
		Columns:      header,
		Rows:         len(rows),
		SkippedLines: skipped,
	}

	slog.Info("loaded source extract",
		slog.String("file", name),
		slog.Any("columns", header),
		slog.Int("rows", len(rows)),
		slog.Int("skipped_lines", skipped))

	return NewTable(name, header, rows), report, nil
}

func splitLine(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}
