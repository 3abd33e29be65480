package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation detects a unique-index conflict surfaced by the driver.
// Postgres and sqlite word these differently and gorm only translates when
// configured to, so the message check stays as a fallback.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
