package activity

import "errors"

var (
	// ErrDuplicateNodeID is returned when a node id is already registered.
	ErrDuplicateNodeID = errors.New("duplicate node id")
	// ErrDuplicateEdgeID is returned when an edge id is already registered.
	ErrDuplicateEdgeID = errors.New("duplicate edge id")
	// ErrUnknownNode is returned when an operation references an unregistered node.
	ErrUnknownNode = errors.New("unknown node")
	// ErrInvalidPinTarget is returned when a pin is attached to a non-action node.
	ErrInvalidPinTarget = errors.New("pins can only be attached to action nodes")
)
