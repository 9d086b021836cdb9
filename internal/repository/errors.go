// Package repository implements data access against the MySQL schema.
// Sentinel errors defined here let handlers and the auth core distinguish
// failure scenarios without inspecting driver errors: duplicate identifier
// collisions map to field-specific registration messages, and ErrNotFound
// stands in for sql.ErrNoRows so in-memory store fakes can return the same
// value in tests.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides on the email column.
var ErrEmailExists = errors.New("email already exists")

// ErrContactExists is returned when an insert collides on the contact column.
var ErrContactExists = errors.New("contact already exists")

// ErrNotFound is returned when a lookup matches no row or a mutation
// affects no row.
var ErrNotFound = errors.New("not found")
