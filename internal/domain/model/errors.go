package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidMetricKey = errors.New("invalid metric key")
	ErrInvalidDataset   = errors.New("invalid dataset")
)
