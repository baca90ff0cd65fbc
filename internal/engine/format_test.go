package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// TestFormatAge walks every tier of the formatter, top-down.
func TestFormatAge(t *testing.T) {
	today := day(2025, 6, 15)

	tests := []struct {
		name  string
		birth time.Time
		want  string
	}{
		{"Exactly 85 years", day(1940, 6, 15), "80 years or older"},
		{"Exactly 80 years", day(1945, 6, 15), "80 years or older"},
		{"One day short of 80", day(1945, 6, 16), "79 years"},
		{"Teenager", day(2010, 1, 1), "15 years"},
		{"Twelve today", day(2013, 6, 15), "12 years"},
		{"Two years seven months", day(2022, 11, 1), "2 and a half years"},
		{"Two years six months is not past half", day(2022, 12, 15), "2 years"},
		{"Two years five months", day(2023, 1, 15), "2 years"},
		{"One year seven months shows the month remainder", day(2023, 11, 15), "7 months"},
		{"Six months", day(2024, 12, 1), "6 months"},
		{"One year exactly falls through to weeks", day(2024, 6, 15), "52 weeks"},
		{"Six weeks", day(2025, 5, 1), "6 weeks"},
		{"Fourteen days", day(2025, 6, 1), "2 weeks"},
		{"Five days", day(2025, 6, 10), "5 days"},
		{"Born today", day(2025, 6, 15), "0 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FormatAge(tt.birth, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAge_FutureBirthdate(t *testing.T) {
	_, err := engine.FormatAge(day(2025, 6, 16), day(2025, 6, 15))
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestFormatAges(t *testing.T) {
	today := day(2025, 6, 15)
	g := engine.NewGroup(
		engine.Person{Name: "Grandma", Birthdate: day(1940, 1, 1)},
		engine.Person{Name: "Baby", Birthdate: day(2025, 6, 10)},
	)

	ages, err := engine.FormatAges(g, today)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Grandma": "80 years or older",
		"Baby":    "5 days",
	}, ages)
}

func TestFormatMemberAge(t *testing.T) {
	today := day(2025, 6, 15)
	g := engine.NewGroup(engine.Person{Name: "Ola", Birthdate: day(2000, 1, 1)})

	got, err := engine.FormatMemberAge(g, "Ola", today)
	require.NoError(t, err)
	assert.Equal(t, "25 years", got)

	_, err = engine.FormatMemberAge(g, "Kari", today)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}
