package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/repositories"
)

// Similarity computes case-insensitive token-set Jaccard similarity between
// two description strings: intersection size over union size of their
// whitespace-tokenized word sets. Exact equality short-circuits to 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Deduplicator decides whether a candidate discrepancy is a near-duplicate of
// one already recorded for the same page.
type Deduplicator interface {
	// IsDuplicate reports whether candidateDescription is similar, at or above
	// the threshold, to any existing discrepancy linked to the page.
	IsDuplicate(ctx context.Context, pageID, candidateDescription string) (bool, error)
}

type deduplicator struct {
	discrepancies repositories.DiscrepancyRepository
	threshold     float64
	logger        *zap.Logger
}

// NewDeduplicator creates a page-scoped deduplicator with the given similarity
// threshold.
func NewDeduplicator(discrepancies repositories.DiscrepancyRepository, threshold float64, logger *zap.Logger) Deduplicator {
	return &deduplicator{
		discrepancies: discrepancies,
		threshold:     threshold,
		logger:        logger.Named("dedup"),
	}
}

var _ Deduplicator = (*deduplicator)(nil)

// IsDuplicate compares the candidate against the page's existing discrepancies
// only, not the whole collection. A store failure degrades to "not a
// duplicate" with a warning: creating a possible duplicate beats silently
// dropping a real finding.
func (d *deduplicator) IsDuplicate(ctx context.Context, pageID, candidateDescription string) (bool, error) {
	existing, err := d.discrepancies.ListByPage(ctx, pageID)
	if err != nil {
		d.logger.Warn("could not load existing discrepancies, treating candidate as new",
			zap.String("pageId", pageID),
			zap.Error(err))
		return false, nil
	}

	for _, disc := range existing {
		score := Similarity(candidateDescription, disc.Description)
		if score >= d.threshold {
			d.logger.Debug("candidate matches existing discrepancy",
				zap.String("pageId", pageID),
				zap.String("existingId", disc.ID),
				zap.Float64("similarity", score))
			return true, nil
		}
	}
	return false, nil
}
