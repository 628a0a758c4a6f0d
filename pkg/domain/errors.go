package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNodeNotFound is returned when a dialogue node id is not part of the graph.
var ErrNodeNotFound = errors.New("dialogue node not found")

// ErrOrderNotFound is returned by the order book for unknown order ids.
var ErrOrderNotFound = errors.New("order not found")
