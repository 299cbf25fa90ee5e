// Package errors holds write conflicts shared by repositories and services.
package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOptimisticLock the row's version moved on since it was read.
var ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")

// IsDuplicate reports a unique-constraint rejection. The gorm connection
// runs with TranslateError, so postgres 23505 surfaces as ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsConflict covers both ways two concurrent writers can collide.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOptimisticLock) || IsDuplicate(err)
}
