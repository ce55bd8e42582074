// Package core defines the ledger domain: the Record type, the closed set of
// error kinds callers branch on with errors.As, and the display helpers the
// presentation layer is allowed to borrow.
package core

import "fmt"

// ValidationError reports a rejected input value. Always recoverable: the
// caller corrects the input and retries.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to an absent record id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

// ConflictError is a state-dependent refusal, e.g. deleting a category still
// referenced by records or adding a duplicate one. Retrying the same call
// cannot succeed; the caller must change approach.
type ConflictError struct {
	Resource string
	Key      string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Resource, e.Key, e.Reason)
}

// ParseError reports malformed persisted or imported data.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure. In-memory state stays authoritative
// when one is returned from a mutating operation; only durability failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
