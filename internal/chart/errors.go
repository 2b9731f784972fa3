package chart

import "errors"

var (
	// ErrBucketMismatch indicates a frame whose value count differs from the
	// layout bucket count.
	ErrBucketMismatch = errors.New("chart: bucket count mismatch")

	// ErrInvalidRange indicates a domain with Right <= Left.
	ErrInvalidRange = errors.New("chart: right boundary must be greater than left boundary")

	// ErrInvalidScale indicates a non-positive MaxValue or GridStep.
	ErrInvalidScale = errors.New("chart: display ceiling and grid step must be positive")

	// ErrCurveShape indicates reference curve coordinates of unequal or zero length.
	ErrCurveShape = errors.New("chart: reference curve shape mismatch")

	// ErrInvalidLayout indicates a layout with no buckets.
	ErrInvalidLayout = errors.New("chart: layout needs at least one bucket")

	// ErrSurfaceTooSmall indicates a surface with no room left inside the padding.
	ErrSurfaceTooSmall = errors.New("chart: surface smaller than padding")
)
