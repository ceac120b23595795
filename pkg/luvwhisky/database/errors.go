package database

import (
	"errors"
	"strings"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"gorm.io/gorm"
)

// Translate maps a store error onto the API error kinds. what names the
// record involved and is used in the NotFound/Conflict messages.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierror.NotFound(what + " not found").WithCause(err)
	case IsUniqueViolation(err):
		return apierror.Conflict(what + " already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return apierror.Conflict(what + " is still referenced").WithCause(err)
	default:
		return apierror.Upstream("database operation failed").WithCause(err)
	}
}

// IsUniqueViolation reports whether err is a unique-key conflict.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
