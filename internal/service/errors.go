package service

import "errors"

// ErrDataAccess wraps every store failure. Store errors are not retried;
// the caller answers with the generic failure reply.
var ErrDataAccess = errors.New("data access failed")

// ErrMissingMovieID is returned when a details lookup is attempted without
// a resolved movie id. It signals a caller bug, never bad user input.
var ErrMissingMovieID = errors.New("movie id is required for details")
