package storage

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("storage: document not found")

// See https://github.com/mongodb/mongo/blob/master/src/mongo/base/error_codes.yml
const duplicateKeyCode = 11000

// ValidationError reports a document that failed required-field validation.
// It is never retried.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "storage: validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsDuplicate reports whether err is a duplicate-key conflict.
func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsTransient reports whether err is a connectivity failure worth retrying.
// Validation and duplicate-key errors are business errors and never qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var verr *ValidationError
	if errors.As(err, &verr) || mongo.IsDuplicateKeyError(err) {
		return false
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// onlyDuplicates reports whether every failure in a bulk write was a
// duplicate-key conflict, in which case the batch is treated as a success
// for the non-duplicate subset.
func onlyDuplicates(bwe mongo.BulkWriteException) bool {
	if len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return bwe.WriteConcernError == nil
}
