package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicate            = errors.New("record already exists")
	ErrReferentialIntegrity = errors.New("referenced record does not exist")
	ErrUnavailable          = errors.New("persistence unavailable")
)

// classify folds driver and gorm errors into the package's sentinel errors.
// Anything unrecognised is treated as the store being unavailable.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrReferentialIntegrity),
		errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferentialIntegrity
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
