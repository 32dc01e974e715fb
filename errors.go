package walkshed

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedGeometry is returned when an input polyline has fewer than 2 vertices.
	// Network construction is all-or-nothing: no partial network is produced.
	ErrMalformedGeometry = errors.New("malformed geometry: polyline must contain at least 2 vertices")
	// ErrInvalidBudget is returned for a negative distance budget. Rejects the single query only.
	ErrInvalidBudget = errors.New("invalid budget: distance budget must be non-negative")
	// ErrNoSuchNode is returned by nearest-node queries against an empty network.
	ErrNoSuchNode = errors.New("no such node: network has no nodes")
)
