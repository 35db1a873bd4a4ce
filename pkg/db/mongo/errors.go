package mongo

import (
	"context"
	"errors"

	apperrors "clinic/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// IsUnavailable reports whether err means the store could not be reached in
// time, as opposed to rejecting the request.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	var selErr topology.ServerSelectionError
	if errors.As(err, &selErr) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// StoreError maps a repository failure to SERVICE_UNAVAILABLE when the store
// was unreachable and to INTERNAL_ERROR otherwise.
func StoreError(message string, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsUnavailable(err) {
		return apperrors.UnavailableWithCause("Database", err)
	}
	return apperrors.Internal(message, err)
}
