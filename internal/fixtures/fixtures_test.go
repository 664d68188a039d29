package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHolidayTables(t *testing.T) {
	tables, err := LoadHolidayTables()
	require.NoError(t, err)

	assert.Equal(t, "วันขึ้นปีใหม่", tables.Fixed["01-01"])
	assert.Equal(t, "วันมาฆบูชา", tables.Dynamic[2025]["02-12"])
	assert.Nil(t, tables.Dynamic[1999])
}

func TestLoadSeasonal(t *testing.T) {
	s, err := LoadSeasonal()
	require.NoError(t, err)

	for _, category := range []string{"on_time", "late", "departure"} {
		assert.Len(t, s.Messages[category], 5, category)
	}
	require.NotEmpty(t, s.Greetings)
	assert.NotEmpty(t, s.Greetings[0].ByStaff["*"])
	require.NotEmpty(t, s.Promotions)
	assert.NotEmpty(t, s.Promotions[0].EffectiveFrom)
}

func TestLoadDefaultStaff(t *testing.T) {
	seeds, err := LoadDefaultStaff()
	require.NoError(t, err)
	require.NotEmpty(t, seeds)

	seen := map[string]bool{}
	for _, s := range seeds {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Name)
		assert.False(t, seen[s.ID], "duplicate seed id %s", s.ID)
		seen[s.ID] = true
	}
}
