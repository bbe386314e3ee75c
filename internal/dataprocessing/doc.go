// Package dataprocessing loads the tab-separated FDA extracts and merges
// them into the denormalized submission table the dashboard consumes.
package dataprocessing
