package importer

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// fatalError marks an error that threatens transaction integrity and must
// abort the whole batch instead of failing a single row.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// Fatal wraps an error so the engine treats it as batch-fatal. Adapters use
// it for failures that leave the transaction unusable.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether an error must abort the batch. Context
// cancellation and a dead transaction or connection are always fatal;
// everything else is a recoverable row outcome.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fe *fatalError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrInvalidDB)
}
