// Package domain holds the shared value types of the support engine:
// dialogue nodes, session state, suggestion edges and sentinel errors.
// It has no dependencies and no behavior beyond simple copying.
package domain
