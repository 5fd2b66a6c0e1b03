package service

import "errors"

// ErrRoundInProgress is returned when a new training round is requested
// while an earlier one has not finished.
var ErrRoundInProgress = errors.New("a federated learning round is already in progress")
