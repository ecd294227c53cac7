package domain

import (
	"errors"
)

const (
	ItemTypeLost  = "LOST"
	ItemTypeFound = "FOUND"
)

const (
	ItemStatusOpen     = "OPEN"
	ItemStatusResolved = "RESOLVED"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// ValidItemType reports whether t is one of the supported report types.
func ValidItemType(t string) bool {
	return t == ItemTypeLost || t == ItemTypeFound
}
