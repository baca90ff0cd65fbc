package engine

import (
	"errors"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Error kinds returned by the engine. Callers match them with errors.Is.
var (
	// ErrInvalidInput reports a birthdate after "today", outside the
	// supported range, or otherwise unusable.
	ErrInvalidInput = errors.New(config.ErrInvalidInput)

	// ErrEmptyGroup reports an aggregate requested over zero members.
	ErrEmptyGroup = errors.New(config.ErrEmptyGroup)

	// ErrNotFound reports a lookup for an identifier or label that is absent.
	ErrNotFound = errors.New(config.ErrNotFound)
)

// ErrDivisionByZero is the same failure as ErrEmptyGroup: every averaging
// step divides by the member count.
var ErrDivisionByZero = ErrEmptyGroup
