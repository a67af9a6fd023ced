package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/jsonutil"
)

// MemoryStore is an in-memory RecordStore used by tests. It understands the
// filter shapes produced by the builders in formula.go (Eq, NotEmpty, And) and
// nothing more, which is all the engine ever sends.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]*Record

	// CreateErr, when set, fails Create calls whose description matches;
	// used to exercise partial-persistence failures.
	CreateErr func(table string, fields map[string]any) error

	// clock lets tests control record creation times.
	clock func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]map[string]*Record),
		clock:  time.Now,
	}
}

var _ RecordStore = (*MemoryStore)(nil)

// SetClock overrides the creation-time source.
func (m *MemoryStore) SetClock(clock func() time.Time) {
	m.clock = clock
}

// Seed inserts a record with a fixed ID and creation time.
func (m *MemoryStore) Seed(table, id string, createdTime time.Time, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]*Record)
	}
	m.tables[table][id] = &Record{ID: id, CreatedTime: createdTime, Fields: fields}
}

// Find implements RecordStore.
func (m *MemoryStore) Find(ctx context.Context, table, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.tables[table][id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyRecord(rec), nil
}

// List implements RecordStore.
func (m *MemoryStore) List(ctx context.Context, table, filter string) ([]*Record, error) {
	pred, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, rec := range m.tables[table] {
		if pred(rec) {
			out = append(out, copyRecord(rec))
		}
	}
	// Stable order for deterministic tests.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create implements RecordStore.
func (m *MemoryStore) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	if m.CreateErr != nil {
		if err := m.CreateErr(table, fields); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]*Record)
	}

	rec := &Record{
		ID:          "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		CreatedTime: m.clock(),
		Fields:      fields,
	}
	m.tables[table][rec.ID] = rec
	return copyRecord(rec), nil
}

// Update implements RecordStore.
func (m *MemoryStore) Update(ctx context.Context, table, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.tables[table][id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}
	return nil
}

func copyRecord(rec *Record) *Record {
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return &Record{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields}
}

// parseFilter turns a formula back into a predicate. It only accepts the
// shapes emitted by formula.go.
func parseFilter(filter string) (func(*Record) bool, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return func(*Record) bool { return true }, nil
	}

	if strings.HasPrefix(filter, "AND(") && strings.HasSuffix(filter, ")") {
		inner := filter[len("AND(") : len(filter)-1]
		parts := splitPredicates(inner)
		preds := make([]func(*Record) bool, 0, len(parts))
		for _, part := range parts {
			p, err := parseFilter(part)
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		return func(rec *Record) bool {
			for _, p := range preds {
				if !p(rec) {
					return false
				}
			}
			return true
		}, nil
	}

	if field, ok := strings.CutSuffix(filter, " != ''"); ok {
		name := strings.Trim(field, "{}")
		return func(rec *Record) bool {
			return strings.TrimSpace(jsonutil.FlexibleString(rec.Fields[name])) != ""
		}, nil
	}

	if name, value, ok := parseEq(filter); ok {
		return func(rec *Record) bool {
			v := rec.Fields[name]
			if jsonutil.FlexibleString(v) == value {
				return true
			}
			for _, item := range jsonutil.FlexibleStringSlice(v) {
				if item == value {
					return true
				}
			}
			return false
		}, nil
	}

	return nil, fmt.Errorf("unsupported filter formula: %s", filter)
}

// parseEq matches {Field} = 'value'.
func parseEq(filter string) (field, value string, ok bool) {
	open := strings.Index(filter, "{")
	close := strings.Index(filter, "}")
	if open != 0 || close < 0 {
		return "", "", false
	}
	field = filter[1:close]

	rest := strings.TrimSpace(filter[close+1:])
	rest, found := strings.CutPrefix(rest, "=")
	if !found {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '\'' || rest[len(rest)-1] != '\'' {
		return "", "", false
	}
	value = strings.ReplaceAll(rest[1:len(rest)-1], "\\'", "'")
	return field, value, true
}

// splitPredicates splits AND arguments at top-level ", " boundaries, ignoring
// commas inside quoted values.
func splitPredicates(s string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			if i == 0 || s[i-1] != '\\' {
				inQuote = !inQuote
			}
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
