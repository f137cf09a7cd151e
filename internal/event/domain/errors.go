package domain

import "errors"

var (
	// ErrCategoryNotFound marks missing category metadata. Summary
	// generation cannot proceed without it, so it is a configuration
	// integrity error rather than something to skip silently.
	ErrCategoryNotFound = errors.New("ticket_category_not_found")
)
