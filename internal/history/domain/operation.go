// Package domain defines the operation history entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operation is a record of a cryptographic operation performed by a tenant.
//
// MetaJSON carries free-form metadata (never plaintext or key material) and
// TookMs the optional client-observed duration. Records are tenant-scoped:
// row-level security and the owner predicates keep each tenant's history
// invisible to others.
type Operation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      string
	Algo      string
	MetaJSON  string
	TookMs    *int64
	CreatedAt time.Time
}

// ListFilter narrows an operation history listing.
type ListFilter struct {
	// Kind filters by operation kind when non-empty.
	Kind string
	// Algo filters by algorithm tag when non-empty.
	Algo string
	// Limit caps the number of rows returned.
	Limit int
}

const (
	// ListLimitDefault is applied when no limit is requested.
	ListLimitDefault = 50
	// ListLimitMax is the upper bound for a single listing.
	ListLimitMax = 200
)

// ClampLimit normalizes a requested limit into [1, ListLimitMax], applying
// the default for zero or negative values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return ListLimitDefault
	}
	if limit > ListLimitMax {
		return ListLimitMax
	}
	return limit
}
