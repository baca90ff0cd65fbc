package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Person is one tracked member of a group.
type Person struct {
	// Name identifies the person; it is unique within a group.
	Name string

	// Birthdate is the calendar date of birth (time of day is ignored).
	Birthdate time.Time
}

// Validate checks that the person has a name and a birthdate within
// [config.MinBirthdate, today].
func (p Person) Validate(today time.Time) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidInput)
	}
	b := DateOf(p.Birthdate)
	if b.After(DateOf(today)) {
		return fmt.Errorf("%w: %s %q (%s)", ErrInvalidInput, config.ErrFutureBirthdate, p.Name, b.Format(config.DateFormatOutput))
	}
	if b.Before(config.MinBirthdate) {
		return fmt.Errorf("%w: %s %q (%s)", ErrInvalidInput, config.ErrTooOldBirthdate, p.Name, b.Format(config.DateFormatOutput))
	}
	return nil
}

// Group maps person identifiers to birthdates.
// The zero value and a nil *Group are both valid empty groups for reading.
type Group struct {
	members map[string]time.Time
}

// NewGroup builds a group from people. Later entries win on duplicate names.
func NewGroup(people ...Person) *Group {
	g := &Group{members: make(map[string]time.Time, len(people))}
	for _, p := range people {
		g.Set(p.Name, p.Birthdate)
	}
	return g
}

// Set adds or replaces a member.
func (g *Group) Set(name string, birthdate time.Time) {
	if g.members == nil {
		g.members = make(map[string]time.Time)
	}
	g.members[name] = DateOf(birthdate)
}

// Remove deletes a member if present.
func (g *Group) Remove(name string) {
	if g == nil {
		return
	}
	delete(g.members, name)
}

// Len returns the member count.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.members)
}

// Birthdate returns the birthdate recorded for name.
func (g *Group) Birthdate(name string) (time.Time, error) {
	if g != nil {
		if b, ok := g.members[name]; ok {
			return b, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %q: %w", config.ErrUnknownMember, name, ErrNotFound)
}

// Names returns the member identifiers in lexical order.
func (g *Group) Names() []string {
	if g == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(g.members))
}

// Members returns the members ordered by name.
func (g *Group) Members() []Person {
	names := g.Names()
	people := make([]Person, 0, len(names))
	for _, name := range names {
		people = append(people, Person{Name: name, Birthdate: g.members[name]})
	}
	return people
}

// Validate reports every member whose record is invalid relative to today.
// The returned error matches ErrInvalidInput.
func (g *Group) Validate(today time.Time) error {
	var errs []error
	for _, p := range g.Members() {
		if err := p.Validate(today); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// totalDays sums every member's age in days at today.
func (g *Group) totalDays(today time.Time) (int, error) {
	total := 0
	for _, p := range g.Members() {
		days, err := AgeInDays(p.Birthdate, today)
		if err != nil {
			return 0, fmt.Errorf("member %q: %w", p.Name, err)
		}
		total += days
	}
	return total, nil
}
