package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for locally created resources.
//
// This function creates a UUID-based unique identifier that can be used
// for agents, threads, messages and runs in in-process backends.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }
