package game

import "errors"

// Command failures. Callers wrap these with context and test with errors.Is.
var (
	ErrNoMovement          = errors.New("no movement left")
	ErrNotReachable        = errors.New("destination not reachable")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrInvalidTile         = errors.New("invalid tile")
	ErrCannotAfford        = errors.New("cannot afford")
	ErrCityTooClose        = errors.New("city within distance")
	ErrNoRoom              = errors.New("no free tile")
	ErrUnknownConstruction = errors.New("unknown construction")
	ErrNotAvailable        = errors.New("not available")
	ErrNotOwner            = errors.New("not owned by faction")
)
