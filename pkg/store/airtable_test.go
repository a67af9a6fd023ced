package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/retry"
)

func newTestClient(t *testing.T, handler http.Handler) (*AirtableClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewAirtableClient(AirtableConfig{
		BaseURL: srv.URL,
		BaseID:  "appTest",
		APIKey:  "key-test",
	}, zap.NewNop())
	require.NoError(t, err)
	client.retryCfg = &retry.Config{MaxRetries: 2, InitialDelay: 1, MaxDelay: 1, Multiplier: 1}
	return client, srv
}

func TestAirtableClient_RequiresCredentials(t *testing.T) {
	_, err := NewAirtableClient(AirtableConfig{BaseID: "app"}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewAirtableClient(AirtableConfig{APIKey: "key"}, zap.NewNop())
	assert.Error(t, err)
}

func TestAirtableClient_Find(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-test", r.Header.Get("Authorization"))
		assert.Equal(t, "/appTest/Client%20Web%20Pages/rec1", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "rec1",
			"createdTime": "2025-03-01T10:00:00Z",
			"fields":      map[string]any{"Web Page URL": "https://client.example.com"},
		})
	}))

	rec, err := client.Find(context.Background(), "Client Web Pages", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "rec1", rec.ID)
	assert.Equal(t, "https://client.example.com", rec.Fields["Web Page URL"])
}

func TestAirtableClient_FindNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.Find(context.Background(), "Client Web Pages", "recMissing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAirtableClient_ListFollowsPagination(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			assert.Equal(t, "{Active} = '1'", r.URL.Query().Get("filterByFormula"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "rec1", "fields": map[string]any{}}},
				"offset":  "next-page",
			})
		default:
			assert.Equal(t, "next-page", r.URL.Query().Get("offset"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"records": []map[string]any{{"id": "rec2", "fields": map[string]any{}}},
			})
		}
	}))

	records, err := client.List(context.Background(), "Centres", Eq("Active", "1"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "rec2", records[1].ID)
}

func TestAirtableClient_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"records": []map[string]any{}})
	}))

	_, err := client.List(context.Background(), "Centres", "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAirtableClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	_, err := client.Create(context.Background(), "Notes", map[string]any{"Name": "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAirtableClient_CreateSendsFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Price mismatch", body.Fields["Name"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "recNew", "fields": body.Fields})
	}))

	rec, err := client.Create(context.Background(), "Discrepancy Notes", map[string]any{"Name": "Price mismatch"})
	require.NoError(t, err)
	assert.Equal(t, "recNew", rec.ID)
}
