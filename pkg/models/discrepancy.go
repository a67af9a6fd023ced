package models

import (
	"strings"
	"time"
)

// Severity levels for a discrepancy.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Discrepancy is a single factual mismatch found between a page and its
// reference. Created only by the scan pipeline, mutated only by the resolve
// action, never deleted.
type Discrepancy struct {
	ID              string
	Name            string
	Description     string // authoritative field - drives dedup and display
	Severity        string
	PageID          string
	CentreID        string
	Resolved        bool
	ResolutionNotes string
	CreatedAt       time.Time
}

// EffectiveResolved reports whether the discrepancy counts as resolved.
// Resolution is recorded through two independently-writable fields: the
// Resolved checkbox and the free-text ResolutionNotes. A discrepancy with
// notes but an unchecked flag is still resolved. Every place that counts,
// filters, or displays resolved state must go through this method.
func (d *Discrepancy) EffectiveResolved() bool {
	return d.Resolved || strings.TrimSpace(d.ResolutionNotes) != ""
}
