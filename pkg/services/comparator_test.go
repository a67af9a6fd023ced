package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/llm"
	"github.com/offerlens/coherence-engine/pkg/models"
)

func testFactSheet() *models.FactSheet {
	return &models.FactSheet{
		Dates:    []string{"15 giugno", "29 giugno"},
		Duration: "2 settimane",
		Price:    "€2.450",
		Location: "Dublino",
		Services: []string{"pensione completa", "15h inglese"},
	}
}

func TestComparator_ParsesResponse(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return `{
			"discrepancySummary": "Il prezzo sul sito cliente non corrisponde.",
			"coherenceScore": "Discrepanze Minori",
			"discrepancies": [
				{"name": "Price mismatch", "description": "Client shows €200 but official is €250", "severity": "High", "actionRecommendation": "Aggiornare il prezzo"}
			]
		}`, nil
	}

	cmp := NewComparator(mock, 15000, zap.NewNop())
	result := cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), nil)

	assert.Equal(t, "Il prezzo sul sito cliente non corrisponde.", result.Summary)
	assert.Equal(t, ScoreMinorDiscrepancy, result.CoherenceScore)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, "Price mismatch", result.Discrepancies[0].Name)
	assert.Equal(t, models.SeverityHigh, result.Discrepancies[0].Severity)
}

func TestComparator_PromptCarriesFactsAndRule(t *testing.T) {
	mock := llm.NewMockClient()
	cmp := NewComparator(mock, 15000, zap.NewNop())

	cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), nil)

	assert.Contains(t, mock.LastPrompt, "€2.450")
	assert.Contains(t, mock.LastPrompt, "15 giugno")
	assert.Contains(t, mock.LastPrompt, "NOT a discrepancy")
	assert.NotContains(t, mock.LastPrompt, "Previously Accepted Differences")
}

func TestComparator_PromptCarriesPriorResolutionsVerbatim(t *testing.T) {
	mock := llm.NewMockClient()
	cmp := NewComparator(mock, 15000, zap.NewNop())

	priors := []PriorResolution{
		{
			Description: "Client lists only the June departure",
			Resolution:  "Cliente pubblica solo la prima data, concordato con account",
		},
	}
	cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), priors)

	assert.Contains(t, mock.LastPrompt, "Previously Accepted Differences")
	assert.Contains(t, mock.LastPrompt, "Client lists only the June departure")
	assert.Contains(t, mock.LastPrompt, "Cliente pubblica solo la prima data, concordato con account")
}

func TestComparator_FailureYieldsSentinel(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "", errors.New("provider down")
	}

	cmp := NewComparator(mock, 15000, zap.NewNop())
	result := cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), nil)

	assert.Equal(t, FailureSummary, result.Summary)
	assert.Equal(t, ScoreNeedsVerification, result.CoherenceScore)
	assert.Empty(t, result.Discrepancies)
}

func TestComparator_MalformedResponseYieldsSentinel(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "Everything looks fine to me!", nil
	}

	cmp := NewComparator(mock, 15000, zap.NewNop())
	result := cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), nil)

	assert.Equal(t, FailureSummary, result.Summary)
	assert.Empty(t, result.Discrepancies)
}

func TestComparator_DefaultsEmptySummaryAndScore(t *testing.T) {
	mock := llm.NewMockClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return `{"discrepancies": []}`, nil
	}

	cmp := NewComparator(mock, 15000, zap.NewNop())
	result := cmp.Compare(context.Background(),
		"https://client.example.com", "client text",
		"https://official.example.com", testFactSheet(), nil)

	assert.Equal(t, NoDiscrepancySummary, result.Summary)
	assert.Equal(t, ScoreNeedsVerification, result.CoherenceScore)
}
