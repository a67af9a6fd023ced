package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
)

func TestMemoryStore_FindMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Find(context.Background(), "Pages", "recMissing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	m := NewMemoryStore()
	rec, err := m.Create(context.Background(), "Pages", map[string]any{"Name": "test"})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	found, err := m.Find(context.Background(), "Pages", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "test", found.Fields["Name"])
}

func TestMemoryStore_ListWithEqFilter(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now()
	m.Seed("Notes", "rec1", now, map[string]any{"Client Web Page": []any{"recPageA"}})
	m.Seed("Notes", "rec2", now, map[string]any{"Client Web Page": []any{"recPageB"}})
	m.Seed("Notes", "rec3", now, map[string]any{"Client Web Page": []any{"recPageA"}})

	records, err := m.List(context.Background(), "Notes", Eq("Client Web Page", "recPageA"))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryStore_ListWithAndFilter(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now()
	m.Seed("Notes", "rec1", now, map[string]any{
		"Client Web Page":  []any{"recPageA"},
		"Resolution Notes": "fixed upstream",
	})
	m.Seed("Notes", "rec2", now, map[string]any{
		"Client Web Page": []any{"recPageA"},
	})

	filter := And(Eq("Client Web Page", "recPageA"), NotEmpty("Resolution Notes"))
	records, err := m.List(context.Background(), "Notes", filter)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec1", records[0].ID)
}

func TestMemoryStore_CreateErrHook(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("store down")
	m.CreateErr = func(table string, fields map[string]any) error { return boom }

	_, err := m.Create(context.Background(), "Notes", map[string]any{})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStore_Update(t *testing.T) {
	m := NewMemoryStore()
	m.Seed("Pages", "rec1", time.Now(), map[string]any{"Status": "old"})

	err := m.Update(context.Background(), "Pages", "rec1", map[string]any{"Status": "new"})
	require.NoError(t, err)

	rec, err := m.Find(context.Background(), "Pages", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "new", rec.Fields["Status"])

	assert.ErrorIs(t, m.Update(context.Background(), "Pages", "recX", nil), apperrors.ErrNotFound)
}
