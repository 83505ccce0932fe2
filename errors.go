package tagger

import (
	"errors"
)

var (
	// ErrNotFound is returned when no document matches the requested identifier.
	ErrNotFound = errors.New("tagger: document not found")

	// ErrNoDatabase is returned when no database connection is available.
	ErrNoDatabase = errors.New("tagger: no database connection (call Connect first)")

	// ErrInvalidID is returned by ParseID for identifiers that are not 24 hex characters.
	ErrInvalidID = errors.New("tagger: invalid document identifier")
)
