// models/errors.go
package models

import "errors"

// Domain error taxonomy. Handlers map these to HTTP status codes; anything
// else is a server error.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrMatchupNotFound = errors.New("matchup not found")

	// ErrAlreadyVoted is a normal business outcome, not a fault. A concurrent
	// double-admission caught by the admission unique index surfaces as this
	// same error.
	ErrAlreadyVoted = errors.New("already voted for this matchup today")

	ErrMovieNotInMatchup = errors.New("movie is not part of this matchup")
	ErrSameMovie         = errors.New("a matchup needs two different movies")
)
