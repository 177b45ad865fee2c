package grpcx

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

// TrailerErrorCode carries the domain error code next to the grpc status.
const TrailerErrorCode = "x-error-code"

func toStatus(ctx context.Context, err error) error {
	code := domain.CodeOf(err)
	if terr := grpc.SetTrailer(ctx, metadata.Pairs(TrailerErrorCode, string(code))); terr != nil {
		slog.Debug("grpc set trailer failed", "err", terr)
	}
	return status.Error(grpcCode(code), err.Error())
}

func grpcCode(code domain.Code) codes.Code {
	switch code {
	case domain.CodeUnauthorized:
		return codes.Unauthenticated
	case domain.CodeTermsRequired:
		return codes.FailedPrecondition
	case domain.CodeUserNotFound, domain.CodeRoomNotFound:
		return codes.NotFound
	case domain.CodeForbidden:
		return codes.PermissionDenied
	case domain.CodeRoomFull:
		return codes.ResourceExhausted
	case domain.CodeInternal:
		return codes.Internal
	default:
		return codes.InvalidArgument
	}
}
