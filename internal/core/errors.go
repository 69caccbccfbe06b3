package core

import "errors"

// Sentinel errors. Callers wrap them with fmt.Errorf("...: %w", Err...) and
// check them with errors.Is.
var (
	// ErrSourceUnreadable means the source file is missing, unreadable, or
	// does not contain the configured sheet. Fatal at startup.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrSchema means the source is readable but its header row does not
	// match the expected columns.
	ErrSchema = errors.New("schema mismatch")

	// ErrInvalidSelection is returned when a query requires a non-empty
	// selection and none was given.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInvalidMode is returned for display modes other than countries/continents.
	ErrInvalidMode = errors.New("invalid display mode")

	// ErrInvalidYear is returned for year filters that are not positive integers.
	ErrInvalidYear = errors.New("invalid year")

	// ErrCacheWrite wraps any failure to persist a snapshot. Never fatal.
	ErrCacheWrite = errors.New("cache write failed")

	// ErrNoSnapshot is returned by queries issued before the first build.
	ErrNoSnapshot = errors.New("no snapshot loaded")

	// ErrUnknownProfile is returned when a profile key is not registered.
	ErrUnknownProfile = errors.New("unknown profile")
)
