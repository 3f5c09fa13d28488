package service

import "errors"

var (
	// ErrUnauthenticated is returned by every write when the caller
	// identity could not be resolved. Reads never return it; they degrade
	// to an empty result instead.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound covers both a missing record and a record owned by
	// someone else. The two cases are deliberately indistinguishable so a
	// caller cannot probe for other users' record IDs.
	ErrNotFound = errors.New("not found")
)
