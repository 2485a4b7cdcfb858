package game

import "errors"

var (
	ErrEntityExists   = errors.New("entity already exists")
	ErrEntityNotFound = errors.New("entity not found")
	ErrUnknownControl = errors.New("unknown control")
	ErrNoSession      = errors.New("no session for entity")
	ErrUnknownKind    = errors.New("unknown entity kind")
)
