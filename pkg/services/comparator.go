package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/llm"
	"github.com/offerlens/coherence-engine/pkg/logging"
	"github.com/offerlens/coherence-engine/pkg/models"
)

// Coherence scores the comparator may assign, plus the degraded fallback.
const (
	ScoreFullCoherence     = "Piena Coerenza"
	ScoreMinorDiscrepancy  = "Discrepanze Minori"
	ScoreCritical          = "Critico"
	ScoreNeedsVerification = "Da verificare"
)

// FailureSummary is returned when the comparison itself failed; the scan still
// completes and records it.
const FailureSummary = "Errore durante l'analisi AI."

// NoDiscrepancySummary is the aligned-content summary the model is instructed
// to emit.
const NoDiscrepancySummary = "Nessuna discrepanza rilevata."

const comparisonSystemMessage = "You are a corporate compliance analyst reviewing reseller websites for factual accuracy. Respond only with JSON."

// CandidateDiscrepancy is one factual mismatch proposed by the comparator,
// before deduplication.
type CandidateDiscrepancy struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Severity             string `json:"severity"`
	ActionRecommendation string `json:"actionRecommendation"`
}

// ComparisonResult is the comparator's full output.
type ComparisonResult struct {
	Summary        string
	CoherenceScore string
	Discrepancies  []CandidateDiscrepancy
}

// PriorResolution is a previously-justified discrepancy fed back into the
// comparison so the same condition is not re-flagged.
type PriorResolution struct {
	Description string
	Resolution  string
}

// Comparator finds factual discrepancies between a client page and the
// official fact sheet.
type Comparator interface {
	// Compare never fails: a model or parse failure yields an empty
	// discrepancy list with the failure summary and the needs-verification
	// score.
	Compare(ctx context.Context, clientURL, clientText, officialURL string, facts *models.FactSheet, priorResolutions []PriorResolution) *ComparisonResult
}

type comparator struct {
	client         llm.Client
	maxPromptChars int
	logger         *zap.Logger
}

// NewComparator creates a comparator. maxPromptChars bounds the client text
// submitted to the model.
func NewComparator(client llm.Client, maxPromptChars int, logger *zap.Logger) Comparator {
	return &comparator{
		client:         client,
		maxPromptChars: maxPromptChars,
		logger:         logger.Named("comparator"),
	}
}

var _ Comparator = (*comparator)(nil)

func (c *comparator) Compare(ctx context.Context, clientURL, clientText, officialURL string, facts *models.FactSheet, priorResolutions []PriorResolution) *ComparisonResult {
	prompt := c.buildPrompt(clientURL, truncate(clientText, c.maxPromptChars), officialURL, facts, priorResolutions)

	response, err := c.client.Complete(ctx, prompt, comparisonSystemMessage, 0.2)
	if err != nil {
		c.logger.Error("comparison failed",
			zap.String("clientUrl", logging.SanitizeURL(clientURL)),
			zap.String("error", logging.SanitizeError(err)))
		return failedComparison()
	}

	parsed, err := llm.ParseJSONResponse[comparisonResponse](response)
	if err != nil {
		c.logger.Error("comparison returned unparseable response",
			zap.String("clientUrl", logging.SanitizeURL(clientURL)),
			zap.Error(err))
		return failedComparison()
	}

	result := &ComparisonResult{
		Summary:        parsed.DiscrepancySummary,
		CoherenceScore: parsed.CoherenceScore,
		Discrepancies:  parsed.Discrepancies,
	}
	if result.Summary == "" {
		result.Summary = NoDiscrepancySummary
	}
	if result.CoherenceScore == "" {
		result.CoherenceScore = ScoreNeedsVerification
	}

	c.logger.Info("comparison complete",
		zap.String("clientUrl", logging.SanitizeURL(clientURL)),
		zap.String("score", result.CoherenceScore),
		zap.Int("candidates", len(result.Discrepancies)))
	return result
}

type comparisonResponse struct {
	DiscrepancySummary string                 `json:"discrepancySummary"`
	CoherenceScore     string                 `json:"coherenceScore"`
	Discrepancies      []CandidateDiscrepancy `json:"discrepancies"`
}

func failedComparison() *ComparisonResult {
	return &ComparisonResult{
		Summary:        FailureSummary,
		CoherenceScore: ScoreNeedsVerification,
		Discrepancies:  []CandidateDiscrepancy{},
	}
}

func (c *comparator) buildPrompt(clientURL, clientText, officialURL string, facts *models.FactSheet, priorResolutions []PriorResolution) string {
	var sb strings.Builder

	sb.WriteString(`You are a corporate compliance analyst specializing in reviewing reseller websites.
Your goal is to compare the "Official Offering" with the "Client Web Page" to ensure factual accuracy.

**Input Data**:
1. OFFICIAL OFFERING (Reference):
`)
	fmt.Fprintf(&sb, "- URL: %s\n- Facts:\n%s\n", officialURL, facts.Render())
	fmt.Fprintf(&sb, "\n2. CLIENT WEB PAGE (Reseller):\n- URL: %s\n- Content:\n%s\n", clientURL, clientText)

	sb.WriteString(`
**Comparison Criteria**:
Verify the following key elements. Focus ONLY on factual content, ignore style/formatting.
- **Dates**: Departure/arrival dates, duration, availability periods.
- **Age**: Allowed age ranges, min/max requirements.
- **Excursions**: Included trips, frequency, specific destinations.
- **Addresses**: Exact location of campus/residence.
- **English Hours**: Weekly hours, course type, certifications.
- **Other Details**: Accommodation type, meals, transfers, included activities.

**Important Rule**:
If the official offering lists MULTIPLE valid values for a field (e.g. several valid date ranges) and the client page shows ONE of them without excluding the others, this is NOT a discrepancy. Flag only explicit contradictions.
`)

	if len(priorResolutions) > 0 {
		sb.WriteString(`
**Previously Accepted Differences**:
The following discrepancies were already reviewed and justified by a human. Do NOT flag them again or any condition covered by their resolution:
`)
		for _, pr := range priorResolutions {
			fmt.Fprintf(&sb, "- Discrepancy: %s\n  Resolution: %s\n", pr.Description, pr.Resolution)
		}
	}

	sb.WriteString(`
**Output Format**:
Return a JSON object with the following fields:
- "discrepancySummary": A concise plain text analysis of discrepancies found (in Italian). If aligned, say "Nessuna discrepanza rilevata."
- "coherenceScore": One of ["Piena Coerenza", "Discrepanze Minori", "Critico"].
- "discrepancies": An array of objects [{ "name": "Short Title", "description": "Technical detailed description of the error", "severity": "High/Medium/Low", "actionRecommendation": "Short action for account manager (max 15 words)" }]
`)

	return sb.String()
}
