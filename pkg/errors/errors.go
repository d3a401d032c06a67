package errors

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrCashGameNotFound   = errors.New("cash game not found")
	ErrDisplayNotFound    = errors.New("display not found")
	ErrPresetNotFound     = errors.New("preset not found")

	ErrInvalidLevelList = errors.New("level list must contain at least one level")
	ErrInvalidTarget    = errors.New("invalid display target")

	ErrOperatorAuthFailed = errors.New("invalid operator credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
