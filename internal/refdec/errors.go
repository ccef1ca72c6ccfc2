package refdec

import "errors"

var (
	// ErrNotInitialized is returned by Decode before Init or Init2.
	ErrNotInitialized = errors.New("refdec: decoder not initialized")

	// ErrObjectType indicates an object type other than Main, LC or LTP.
	ErrObjectType = errors.New("refdec: unsupported object type")

	// ErrChannelConfig indicates a channel configuration outside 1..6.
	ErrChannelConfig = errors.New("refdec: unsupported channel configuration")

	// ErrStreamChanged indicates a frame whose sample rate or channel count
	// differs from the initialized stream.
	ErrStreamChanged = errors.New("refdec: stream parameters changed")

	// ErrWindowShape indicates a KBD window, which is not implemented.
	ErrWindowShape = errors.New("refdec: unsupported window shape")

	// ErrFrameTruncated indicates an ADTS frame longer than the input.
	ErrFrameTruncated = errors.New("refdec: truncated frame")
)
