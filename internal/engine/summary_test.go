package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

func TestSummarize(t *testing.T) {
	today := day(2025, 1, 1)
	g := engine.NewGroup(
		engine.Person{Name: "Ola", Birthdate: day(2000, 1, 1)},
		engine.Person{Name: "Kari", Birthdate: day(2000, 1, 1)},
	)

	s, err := engine.Summarize(g, engine.DefaultJubileeTable(), today)
	require.NoError(t, err)

	assert.Equal(t, today, s.Today)
	assert.Equal(t, 2, s.Members)
	assert.Equal(t, 18264, s.TotalAge.TotalDays)
	assert.Equal(t, 9132, s.AverageAge.TotalDays)
	assert.Equal(t, 25, s.AverageAge.Years)
	assert.Equal(t, day(2024, 12, 31), s.AverageBirthdate)
	assert.Equal(t, "75 years", s.Jubilees[0].Label)
	assert.Equal(t, map[string]string{"Ola": "25 years", "Kari": "25 years"}, s.Ages)
}

func TestSummarize_Failures(t *testing.T) {
	today := day(2025, 1, 1)

	_, err := engine.Summarize(engine.NewGroup(), engine.DefaultJubileeTable(), today)
	assert.ErrorIs(t, err, engine.ErrEmptyGroup)

	g := engine.NewGroup(engine.Person{Name: "Later", Birthdate: day(2025, 1, 2)})
	s, err := engine.Summarize(g, engine.DefaultJubileeTable(), today)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
	assert.Zero(t, s.Members, "no partial results")
}
