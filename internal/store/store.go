// Package store persists whole JSON documents. Each document is read and
// written as one unit; callers own serialization of read-modify-write cycles.
package store

import "errors"

// ErrIO marks persistence faults other than a missing or corrupt document,
// both of which self-heal.
var ErrIO = errors.New("storage failure")

// Store exposes whole-document persistence for services.
type Store interface {
	// Load decodes the document into v. When the backing document is absent
	// or malformed, Load persists v's current state and returns nil, so a
	// fresh zero document becomes the new source of truth.
	Load(v any) error
	// Save serializes v and replaces the backing document.
	Save(v any) error
}
