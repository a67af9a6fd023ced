package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEq(t *testing.T) {
	assert.Equal(t, "{Client Web Page} = 'rec123'", Eq("Client Web Page", "rec123"))
}

func TestEq_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `{Name} = 'O\'Brien'`, Eq("Name", "O'Brien"))
}

func TestNotEmpty(t *testing.T) {
	assert.Equal(t, "{Resolution Notes} != ''", NotEmpty("Resolution Notes"))
}

func TestAnd(t *testing.T) {
	assert.Equal(t, "", And())
	assert.Equal(t, "{A} = 'x'", And(Eq("A", "x")))
	assert.Equal(t,
		"AND({Client Web Page} = 'rec1', {Resolution Notes} != '')",
		And(Eq("Client Web Page", "rec1"), NotEmpty("Resolution Notes")))
	assert.Equal(t, "{A} = 'x'", And("", Eq("A", "x")))
}
