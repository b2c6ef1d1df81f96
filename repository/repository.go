// Package repository is the gorm-backed persistence gateway for patients,
// staff users and web sessions.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
