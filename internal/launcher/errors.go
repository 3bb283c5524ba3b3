package launcher

import (
	"errors"

	"github.com/jeanpaul/launchpad/internal/catalog"
)

var (
	// ErrNotFound is returned for agent names the catalog does not know.
	// It matches catalog.ErrNotFound under errors.Is.
	ErrNotFound = catalog.ErrNotFound
	// ErrInvalidState is returned when an operation conflicts with the
	// launcher's current state, such as launching while a launch is running.
	ErrInvalidState = errors.New("invalid launcher state")
	// ErrInvalidOptions is returned for malformed launch options.
	ErrInvalidOptions = errors.New("invalid launch options")
)
