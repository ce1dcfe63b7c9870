package storage

import "errors"

// ErrRunNotFound is returned when no stored run matches the requested ID.
var ErrRunNotFound = errors.New("review run not found")

// ErrNoRuns is returned when history is queried before any run was stored.
var ErrNoRuns = errors.New("no review runs stored")
