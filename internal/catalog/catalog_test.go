package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFocusArea(t *testing.T) {
	f, ok := ParseFocusArea(" Hitting ")
	require.True(t, ok)
	assert.Equal(t, Hitting, f)

	_, ok = ParseFocusArea("catching")
	assert.False(t, ok)
}

func TestDrillIDsAreUniqueAndCovered(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Drills() {
		assert.False(t, seen[d.ID], "duplicate drill %s", d.ID)
		seen[d.ID] = true
		assert.True(t, d.FocusArea.Valid(), "drill %s has unknown focus area", d.ID)
	}
	for _, area := range FocusAreas {
		assert.NotEmpty(t, DrillsFor(area), "no drills for %s", area)
	}
}

func TestDrillName(t *testing.T) {
	assert.Equal(t, "Tee Work", DrillName("tee-work"))
	assert.Equal(t, "retired-drill", DrillName("retired-drill"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Conditioning", Conditioning.Label())
}
