package chemistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("InChI=1S/FAKE/12345"))
	assert.True(t, IsPlaceholder("FAKE"))
	assert.False(t, IsPlaceholder("InChI=1S/H2O/h1H2"))
	assert.False(t, IsPlaceholder(""))
}

func TestIdentityRewriter(t *testing.T) {
	r := NewIdentityRewriter()
	assert.Equal(t, "InChI=1S/H2O/h1H2", r.Rewrite("InChI=1S/H2O/h1H2"))
	assert.Equal(t, "", r.Rewrite(""))
}

func TestMapRewriter(t *testing.T) {
	r := NewMapRewriter(map[string]string{"bad": "good"})
	assert.Equal(t, "good", r.Rewrite("bad"))
	assert.Equal(t, "other", r.Rewrite("other"))
}

func TestMapRewriterCopiesTable(t *testing.T) {
	table := map[string]string{"bad": "good"}
	r := NewMapRewriter(table)
	table["bad"] = "mutated"
	assert.Equal(t, "good", r.Rewrite("bad"))
}

func TestComparisonOptionsStripStereo(t *testing.T) {
	assert.True(t, ComparisonOptions.StripStereochemistry)
}
