package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFactSheet_RoundTrip(t *testing.T) {
	sheet := &FactSheet{
		Dates:      []string{"15 giugno 2025", "29 giugno 2025"},
		Duration:   "2 settimane",
		Price:      "€2.450",
		Location:   "Dublino, Griffith College",
		Services:   []string{"pensione completa", "15h inglese"},
		RawSummary: "Soggiorno studio a Dublino",
	}

	data, err := sheet.Serialize()
	require.NoError(t, err)

	parsed, err := ParseFactSheet(data)
	require.NoError(t, err)
	assert.Equal(t, sheet, parsed)
}

func TestParseFactSheet_MalformedIsError(t *testing.T) {
	_, err := ParseFactSheet("{not json")
	assert.Error(t, err)
}

func TestParseFactSheet_EmptyIsError(t *testing.T) {
	_, err := ParseFactSheet("   ")
	assert.Error(t, err)
}

func TestFallbackFactSheet_FullyPopulated(t *testing.T) {
	sheet := FallbackFactSheet()
	assert.NotNil(t, sheet.Dates)
	assert.NotNil(t, sheet.Services)
	assert.Equal(t, NotAvailable, sheet.Duration)
	assert.Equal(t, NotAvailable, sheet.Price)
	assert.Equal(t, NotAvailable, sheet.Location)
	assert.True(t, sheet.IsFallback())
}

func TestPage_PrimaryCentreID(t *testing.T) {
	assert.Equal(t, "", (&Page{}).PrimaryCentreID())
	p := &Page{CentreIDs: []string{"recA", "recB"}}
	assert.Equal(t, "recA", p.PrimaryCentreID())
}
