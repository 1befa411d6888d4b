package analysis

import "errors"

// ErrEmptyDataset is returned when an analysis needs at least one cleaned transaction.
var ErrEmptyDataset = errors.New("empty dataset")
