package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NotAvailable is the sentinel for fact-sheet fields the extractor could not
// populate. Display layers never see empty or null fields.
const NotAvailable = "N/A"

// FactSheet is a canonical, structured extraction of facts from an official
// source. It is a pure value object, serialized into the owning centre's
// OfficialFactsCache field.
type FactSheet struct {
	Dates      []string `json:"dates"`
	Duration   string   `json:"duration"`
	Price      string   `json:"price"`
	Location   string   `json:"location"`
	Services   []string `json:"services"`
	RawSummary string   `json:"rawSummary"`
}

// ParseFactSheet decodes a serialized fact sheet. A malformed or empty payload
// is an error: callers treat it as a cache miss, never as ground truth.
func ParseFactSheet(data string) (*FactSheet, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("empty fact sheet payload")
	}

	var sheet FactSheet
	if err := json.Unmarshal([]byte(data), &sheet); err != nil {
		return nil, fmt.Errorf("decode fact sheet: %w", err)
	}
	return &sheet, nil
}

// Serialize encodes the sheet for storage in a centre record.
func (f *FactSheet) Serialize() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode fact sheet: %w", err)
	}
	return string(data), nil
}

// FallbackFactSheet returns a fully-populated sheet with not-available
// sentinels, used when extraction fails. Scans proceed with it but it is never
// written to the cache.
func FallbackFactSheet() *FactSheet {
	return &FactSheet{
		Dates:      []string{},
		Duration:   NotAvailable,
		Price:      NotAvailable,
		Location:   NotAvailable,
		Services:   []string{},
		RawSummary: "Extraction failed",
	}
}

// IsFallback reports whether the sheet is the extraction-failure sentinel.
func (f *FactSheet) IsFallback() bool {
	return f.RawSummary == "Extraction failed"
}

// Render formats the sheet as prompt-ready text.
func (f *FactSheet) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dates: %s\n", strings.Join(f.Dates, "; "))
	fmt.Fprintf(&sb, "Duration: %s\n", f.Duration)
	fmt.Fprintf(&sb, "Price: %s\n", f.Price)
	fmt.Fprintf(&sb, "Location: %s\n", f.Location)
	fmt.Fprintf(&sb, "Services: %s\n", strings.Join(f.Services, "; "))
	fmt.Fprintf(&sb, "Summary: %s\n", f.RawSummary)
	return sb.String()
}
