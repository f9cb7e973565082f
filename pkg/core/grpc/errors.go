package grpc

import (
	mdwerror "github.com/msto63/mAF/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts an error into a gRPC status error. Codes carried by an
// *mdwerror.Error select the status code; everything else is Internal.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(statusCode(mdwerror.GetCode(err)), err.Error())
}

func statusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeMonkeySyntax, mdwerror.CodeValidationFailed:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
