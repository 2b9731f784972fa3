package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrBucketRange indicates a bucket index outside [0, Buckets()).
	ErrBucketRange = errors.New("dynamo: bucket index out of range")

	// ErrParticleRange indicates a particle index outside [0, Particles()).
	ErrParticleRange = errors.New("dynamo: particle index out of range")

	// ErrInvalidParams indicates engine construction parameters out of bounds.
	ErrInvalidParams = errors.New("dynamo: invalid engine parameters")

	// ErrNotFixed indicates a histogram was requested before FixParticles.
	ErrNotFixed = errors.New("dynamo: particles not fixed")
)

// EngineError wraps an error with the failing operation and index.
type EngineError struct {
	Op      string
	Index   int
	Limit   int
	Wrapped error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s(%d): limit %d: %v", e.Op, e.Index, e.Limit, e.Wrapped)
}

func (e *EngineError) Unwrap() error {
	return e.Wrapped
}
