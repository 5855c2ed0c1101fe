package engine

import "errors"

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrGenerationFailed = errors.New("rail line generation failed")
	ErrGameOver         = errors.New("game is over")
	ErrCellOutOfRange   = errors.New("cell out of range")
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrInvalidConfig    = errors.New("config validation")
)
