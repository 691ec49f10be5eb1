package model

import "errors"

// ErrInvalidInput indicates a malformed parameter or an unreadable document
// buffer. Fatal to the current operation; never retried.
var ErrInvalidInput = errors.New("invalid input")

// ErrChunkNotFound indicates an operation referenced an unknown chunk id,
// usually a stale id held across a re-partition.
var ErrChunkNotFound = errors.New("chunk not found")

// ErrSourceUnavailable indicates the backing document for a session cannot
// be retrieved.
var ErrSourceUnavailable = errors.New("source document unavailable")
