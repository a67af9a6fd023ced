package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/models"
	"github.com/offerlens/coherence-engine/pkg/repositories"
	"github.com/offerlens/coherence-engine/pkg/store"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want func(t *testing.T, score float64)
	}{
		{
			name: "identical strings",
			a:    "the price is wrong",
			b:    "the price is wrong",
			want: func(t *testing.T, s float64) { assert.Equal(t, 1.0, s) },
		},
		{
			name: "unrelated strings",
			a:    "completely unrelated text",
			b:    "totally different content",
			want: func(t *testing.T, s float64) { assert.Less(t, s, 0.3) },
		},
		{
			name: "case insensitive",
			a:    "Price Mismatch Found",
			b:    "price mismatch found",
			want: func(t *testing.T, s float64) { assert.Equal(t, 1.0, s) },
		},
		{
			name: "high overlap",
			a:    "client page shows price of 200 euro",
			b:    "client page shows price of 250 euro",
			want: func(t *testing.T, s float64) { assert.GreaterOrEqual(t, s, 0.7) },
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: func(t *testing.T, s float64) { assert.Equal(t, 1.0, s) },
		},
		{
			name: "one empty",
			a:    "something",
			b:    "",
			want: func(t *testing.T, s float64) { assert.Equal(t, 0.0, s) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, Similarity(tt.a, tt.b))
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "the departure date on the client page is outdated"
	b := "the client page departure date is wrong"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func newDedupFixture(t *testing.T) (*store.MemoryStore, Deduplicator) {
	t.Helper()
	m := store.NewMemoryStore()
	repo := repositories.NewDiscrepancyRepository(m, repositories.DefaultTables().Discrepancies)
	return m, NewDeduplicator(repo, 0.7, zap.NewNop())
}

func seedDiscrepancy(t *testing.T, m *store.MemoryStore, pageID, description string) {
	t.Helper()
	repo := repositories.NewDiscrepancyRepository(m, repositories.DefaultTables().Discrepancies)
	_, err := repo.Create(context.Background(), &models.Discrepancy{
		Name:        "existing",
		Description: description,
		PageID:      pageID,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
}

func TestDeduplicator_ExactMatchIsDuplicate(t *testing.T) {
	m, dedup := newDedupFixture(t)
	seedDiscrepancy(t, m, "recPage1", "Client shows €200 but official is €250")

	dup, err := dedup.IsDuplicate(context.Background(), "recPage1", "Client shows €200 but official is €250")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestDeduplicator_NearDuplicateAboveThreshold(t *testing.T) {
	m, dedup := newDedupFixture(t)
	seedDiscrepancy(t, m, "recPage1", "the client page shows a price of 200 euro instead of 250")

	dup, err := dedup.IsDuplicate(context.Background(), "recPage1", "the client page shows a price of 200 euro instead of 300")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestDeduplicator_UnrelatedIsNotDuplicate(t *testing.T) {
	m, dedup := newDedupFixture(t)
	seedDiscrepancy(t, m, "recPage1", "Client shows €200 but official is €250")

	dup, err := dedup.IsDuplicate(context.Background(), "recPage1", "Departure dates list June only, official adds July")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestDeduplicator_ScopedToPage(t *testing.T) {
	m, dedup := newDedupFixture(t)
	seedDiscrepancy(t, m, "recPageOther", "Client shows €200 but official is €250")

	dup, err := dedup.IsDuplicate(context.Background(), "recPage1", "Client shows €200 but official is €250")
	require.NoError(t, err)
	assert.False(t, dup)
}
