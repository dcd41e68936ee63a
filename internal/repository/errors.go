// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// assistant service and the handlers to tell a missing record apart from
// a broken query.
package repository

import "errors"

// ErrPlaceholderMismatch is returned when a WHERE fragment carries a
// different number of "?" placeholders than bound values. It is a
// programming error and is never retried.
var ErrPlaceholderMismatch = errors.New("placeholder count does not match argument count")

// ErrMissingCinemaID is returned when a schedule lookup is attempted
// without a cinema scope.
var ErrMissingCinemaID = errors.New("cinema id is required")

// ErrCinemaNotFound is returned when a cinema cannot be found in the DB.
var ErrCinemaNotFound = errors.New("cinema not found")

// ErrMovieNotFound is returned when a movie id has no catalog row.
var ErrMovieNotFound = errors.New("movie not found")
