package service

import (
	"context"
	"errors"

	"hppkit/internal/apierror"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// lookupErr maps a repository read failure: missing rows become NotFound
// with msg, anything else is an internal failure.
func lookupErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return apierror.Internal(msg, err)
}

// storageErr maps a repository write failure. Domain errors raised inside a
// transaction pass through untouched.
func storageErr(err error, op string) error {
	var domain *apierror.Error
	if errors.As(err, &domain) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict("Duplicate record: " + op)
	}
	return apierror.Internal(op, err)
}
