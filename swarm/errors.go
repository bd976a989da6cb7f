package swarm

import "errors"

// Validation errors returned before any grid construction takes place.
// All of them mean the call produced no output at all.
var (
	// ErrInvalidLength means the smoothing length was zero or negative.
	ErrInvalidLength = errors.New("swarm: smoothing length must be positive")

	// ErrInvalidDomain means a domain extent was zero or negative.
	ErrInvalidDomain = errors.New("swarm: domain extents must be positive")

	// ErrSizeMismatch means the input slices disagree on agent count.
	ErrSizeMismatch = errors.New("swarm: input slice lengths disagree")

	// ErrPositionOutOfBounds means an active agent's position lies
	// outside the half-open domain [0,W) x [0,H).
	ErrPositionOutOfBounds = errors.New("swarm: position outside domain")
)
