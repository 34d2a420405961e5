package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Driver messages for unique violations: PostgreSQL (23505) and SQLite.
var uniqueViolationMarkers = []string{
	"duplicate key",
	"unique constraint",
	"23505",
}

func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return containsAny(err, uniqueViolationMarkers)
}

func isForeignKeyConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	return containsAny(err, []string{"foreign key", "23503"})
}

func isNotNullConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	return containsAny(err, []string{"null value", "not null", "23502"})
}

func isCheckConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	return containsAny(err, []string{"check constraint", "23514"})
}

func containsAny(err error, markers []string) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}

	return false
}
