// Package apperr classifies storage failures into the status codes the services return.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrUnavailable marks a store failure caused by the backend being unreachable.
var ErrUnavailable = errors.New("store unavailable")

// Unavailable tags err so FromStore reports it as codes.Unavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// FromStore turns an unexpected repository error into a status error. Callers handle their
// sentinel errors (not found, duplicates) before reaching this.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrUnavailable) {
		return status.Errorf(codes.Unavailable, "%s: store unavailable", op)
	}
	if errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Canceled, "%s: canceled", op)
	}
	return status.Errorf(codes.Internal, "%s error: %v", op, err)
}
