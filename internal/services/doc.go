// Package services implements the dashboard's data layer: loading and
// caching the merged workbook, filtering, and computing the summary and
// chart aggregates.
package services
