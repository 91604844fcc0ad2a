package engine

import "errors"

// Sentinel kinds for engine errors. Invalid metric, comparator and view keys
// surface as model.ErrInvalidMetricKey.
var (
	ErrNilDataset      = errors.New("nil dataset")
	ErrInvalidStrategy = errors.New("invalid midpoint strategy")
)
