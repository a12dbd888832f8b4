package db

import "errors"

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// VersionConflictError is returned by Commit when a record changed since it was loaded
type VersionConflictError struct {
	Key      string
	Expected int64
	Message  string
}

func (e *VersionConflictError) Error() string {
	return e.Message
}

func IsVersionConflictError(err error) bool {
	var target *VersionConflictError
	return errors.As(err, &target)
}
