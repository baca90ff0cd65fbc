package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

func TestBuildJubileeTable(t *testing.T) {
	table := engine.DefaultJubileeTable()

	require.Len(t, table, 40)
	assert.Equal(t, "25 years", table[0].Label)
	assert.InDelta(t, 9131.054975, table[0].Days, 1e-6)
	assert.Equal(t, "50 years", table[1].Label)
	assert.Equal(t, "1000 years", table[39].Label)
	assert.InDelta(t, 365242.199, table[39].Days, 1e-6)

	for i := 1; i < len(table); i++ {
		assert.Greater(t, table[i].Days, table[i-1].Days, "table must ascend")
	}
}

func TestBuildJubileeTable_Degenerate(t *testing.T) {
	assert.Empty(t, engine.BuildJubileeTable(0, 10))
	assert.Empty(t, engine.BuildJubileeTable(-5, 10))
	assert.Empty(t, engine.BuildJubileeTable(engine.PeriodForYears(10), 0))

	table := engine.BuildJubileeTable(engine.PeriodForYears(10), 3)
	require.Len(t, table, 3)
	assert.Equal(t, "30 years", table[2].Label)
}

func TestComputeJubilees_SingleMember(t *testing.T) {
	today := day(2025, 1, 1)
	g := engine.NewGroup(engine.Person{Name: "Ola", Birthdate: day(2000, 1, 1)})

	jubilees, err := engine.ComputeJubilees(g, engine.DefaultJubileeTable(), today)
	require.NoError(t, err)

	// 9132 days already passed the 25-year mark (9131.05).
	require.Len(t, jubilees, 39)
	first := jubilees[0]
	assert.Equal(t, "50 years", first.Label)
	assert.Equal(t, 9130, first.DaysUntil)
	assert.Equal(t, today.AddDate(0, 0, 9130), first.Date)

	for _, j := range jubilees {
		assert.NotEqual(t, "25 years", j.Label, "passed thresholds must be absent")
		assert.Greater(t, j.Threshold, float64(9132))
	}
}

func TestComputeJubilees_GroupAdvancesPerMember(t *testing.T) {
	today := day(2025, 1, 1)
	g := engine.NewGroup(
		engine.Person{Name: "A", Birthdate: day(2000, 1, 1)},
		engine.Person{Name: "B", Birthdate: day(2000, 1, 1)},
	)

	jubilees, err := engine.ComputeJubilees(g, engine.DefaultJubileeTable(), today)
	require.NoError(t, err)

	// Combined 18264 days: 25 and 50 years are behind.
	require.NotEmpty(t, jubilees)
	assert.Equal(t, "75 years", jubilees[0].Label)
	assert.Equal(t, 4565, jubilees[0].DaysUntil, "(27393.16 - 18264) / 2 = 4564.58")
	assert.Equal(t, today.AddDate(0, 0, 4565), jubilees[0].Date)
}

func TestComputeJubilees_KeepsTableOrderAndTies(t *testing.T) {
	today := day(2025, 1, 1)
	g := engine.NewGroup(engine.Person{Name: "A", Birthdate: today.AddDate(0, 0, -10)})
	table := engine.JubileeTable{
		{Label: "late", Days: 200},
		{Label: "passed", Days: 5},
		{Label: "tie-1", Days: 100},
		{Label: "tie-2", Days: 100},
	}

	jubilees, err := engine.ComputeJubilees(g, table, today)
	require.NoError(t, err)
	require.Len(t, jubilees, 3)

	assert.Equal(t, "late", jubilees[0].Label)
	assert.Equal(t, "tie-1", jubilees[1].Label)
	assert.Equal(t, "tie-2", jubilees[2].Label)
	assert.Equal(t, jubilees[1].DaysUntil, jubilees[2].DaysUntil)
	assert.Equal(t, 90, jubilees[1].DaysUntil)
}

func TestComputeJubilees_ExactlyReachedIsPassed(t *testing.T) {
	today := day(2025, 1, 1)
	g := engine.NewGroup(engine.Person{Name: "A", Birthdate: today.AddDate(0, 0, -100)})

	jubilees, err := engine.ComputeJubilees(g, engine.JubileeTable{{Label: "100 days", Days: 100}}, today)
	require.NoError(t, err)
	assert.Empty(t, jubilees)
}

func TestComputeJubilees_EmptyGroup(t *testing.T) {
	_, err := engine.ComputeJubilees(engine.NewGroup(), engine.DefaultJubileeTable(), day(2025, 1, 1))
	assert.ErrorIs(t, err, engine.ErrDivisionByZero)
}

func TestNextAndFindJubilee(t *testing.T) {
	jubilees := []engine.Jubilee{
		{Label: "a", DaysUntil: 30},
		{Label: "b", DaysUntil: 10},
		{Label: "c", DaysUntil: 10},
	}

	next, ok := engine.NextJubilee(jubilees)
	require.True(t, ok)
	assert.Equal(t, "b", next.Label, "first of a tie wins")

	_, ok = engine.NextJubilee(nil)
	assert.False(t, ok)

	found, err := engine.FindJubilee(jubilees, "c")
	require.NoError(t, err)
	assert.Equal(t, 10, found.DaysUntil)

	_, err = engine.FindJubilee(jubilees, "z")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}
