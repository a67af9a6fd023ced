package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveResolved(t *testing.T) {
	tests := []struct {
		name     string
		resolved bool
		notes    string
		want     bool
	}{
		{"neither flag nor notes", false, "", false},
		{"flag only", true, "", true},
		{"notes only", false, "Prezzo aggiornato dal cliente", true},
		{"both", true, "Risolto", true},
		{"whitespace notes do not resolve", false, "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Discrepancy{Resolved: tt.resolved, ResolutionNotes: tt.notes}
			assert.Equal(t, tt.want, d.EffectiveResolved())
		})
	}
}
