package baked

import "errors"

// Sentinel errors for the runtime file system.
var (
	// ErrNotExist is returned by Get when no record matches the path.
	ErrNotExist = errors.New("baked: no such file")

	// ErrDuplicatePath is returned by Add when the path is already registered.
	ErrDuplicatePath = errors.New("baked: duplicate path")

	// ErrReadOnly is returned by any write attempt; embedded content is immutable.
	ErrReadOnly = errors.New("baked: file system is read-only")

	// ErrClosed is returned when a handle is used after Close.
	ErrClosed = errors.New("baked: file already closed")

	// ErrSizeOverflow is returned when a record's size does not fit the platform.
	ErrSizeOverflow = errors.New("baked: size overflow")
)
