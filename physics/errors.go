package physics

import (
	"errors"

	"github.com/milk9111/shootgame/physics/engine"
)

var (
	ErrNotInitialized     = errors.New("physics world not initialized")
	ErrAlreadyInitialized = errors.New("physics world already initialized")
	ErrNegativeMass       = errors.New("mass must be finite and non-negative")
	ErrInvalidShape       = engine.ErrInvalidShape
	ErrHandleAssigned     = errors.New("physics body already has a handle")
	ErrUnknownBackend     = errors.New("unknown physics backend")
)
