package store

import "errors"

// Sentinel errors shared by the Postgres and Mongo stores. Handlers map
// these to HTTP statuses.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
