// Package exporter writes the merged submission table to its spreadsheet
// and CSV representations.
package exporter
