package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// FormatAge renders the age at today in the coarsest fitting unit:
//
//	80+ years      "80 years or older"
//	12-79 years    "{y} years"
//	2-11 years     "{y} years", or "{y} and a half years" past 6 months
//	6+ months      "{m} months"
//	14+ days       "{d/7} weeks"
//	otherwise      "{d} days"
//
// The month count is the remainder within the current year of age, so a
// 19-month-old reads as "7 months".
func FormatAge(birthdate, today time.Time) (string, error) {
	days, err := AgeInDays(birthdate, today)
	if err != nil {
		return "", err
	}
	years, months := elapsedYearsMonths(DateOf(birthdate), DateOf(today))

	switch {
	case years >= config.AgeCapYears:
		return config.FormatAgeCapped, nil
	case years >= config.AgeYearsOnly:
		return fmt.Sprintf(config.FormatAgeYears, years), nil
	case years >= config.AgeHalfYearsFrom:
		if months > config.AgeHalfMonths {
			return fmt.Sprintf(config.FormatAgeHalfYear, years), nil
		}
		return fmt.Sprintf(config.FormatAgeYears, years), nil
	case months >= config.AgeMonthsFrom:
		return fmt.Sprintf(config.FormatAgeMonths, months), nil
	case days >= config.AgeWeeksFromDays:
		return fmt.Sprintf(config.FormatAgeWeeks, days/config.DaysPerWeek), nil
	default:
		return fmt.Sprintf(config.FormatAgeDays, days), nil
	}
}

// FormatAges formats every member's age.
func FormatAges(g *Group, today time.Time) (map[string]string, error) {
	ages := make(map[string]string, g.Len())
	for _, p := range g.Members() {
		s, err := FormatAge(p.Birthdate, today)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", p.Name, err)
		}
		ages[p.Name] = s
	}
	return ages, nil
}

// FormatMemberAge formats the age of a single member.
func FormatMemberAge(g *Group, name string, today time.Time) (string, error) {
	b, err := g.Birthdate(name)
	if err != nil {
		return "", err
	}
	return FormatAge(b, today)
}

// elapsedYearsMonths returns full years of age and the months elapsed since
// the last birthday. birth must not be after today.
func elapsedYearsMonths(birth, today time.Time) (int, int) {
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}

	months := int(today.Month()) - int(birth.Month())
	if today.Day() < birth.Day() {
		months--
	}
	months = (months%config.MonthsPerYear + config.MonthsPerYear) % config.MonthsPerYear
	return years, months
}
