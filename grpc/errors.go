package grpc

import (
	"context"
	"errors"
	"io/fs"

	"github.com/dialogs/dialog-io-service/ioservice"
	"github.com/dialogs/dialog-io-service/worker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// non-retryable errors
var (
	ErrInvalidRequest = status.Error(codes.InvalidArgument, "invalid request")
	ErrInternal       = status.Error(codes.Internal, "an error has occurred")
)

// retryable errors
var (
	ErrUnavailable = status.Error(codes.Unavailable, "service is unavailable")
)

// Unimplemented returns the error for a call of an unregistered method
func Unimplemented(fullMethod string) error {
	return status.Errorf(codes.Unimplemented, "unknown method %s", fullMethod)
}

// ToStatus converts a handler error to the grpc status error.
// IOFailure keeps the text of the file system error.
func ToStatus(err error) error {

	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	if errors.Is(err, worker.ErrClosed) {
		return ErrUnavailable
	}

	var failure *ioservice.IOFailure
	if errors.As(err, &failure) {
		return status.Error(ioFailureCode(failure), failure.Error())
	}

	return ErrInternal
}

func ioFailureCode(err error) codes.Code {

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return codes.NotFound
	case errors.Is(err, fs.ErrPermission):
		return codes.PermissionDenied
	}

	return codes.Unknown
}
