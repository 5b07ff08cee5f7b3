package tts

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidRequestError reports a request that violates the parameter
// bounds. These are client-correctable and surfaced verbatim.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return e.Reason
}

// ProviderError reports a failed upstream call. Rejected distinguishes
// content the provider refused (e.g. malformed SSML) from the provider
// being unreachable, over quota, or otherwise erroring.
type ProviderError struct {
	Rejected bool
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Rejected {
		return fmt.Sprintf("provider rejected request: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider unavailable: %s: %s", e.Code, e.Message)
}

// classifyProviderError maps an error from the upstream gRPC client onto
// the ProviderError taxonomy. Argument-shaped failures count as
// rejections; everything else, timeouts included, as unavailability.
func classifyProviderError(err error) *ProviderError {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
			return &ProviderError{Rejected: true, Code: st.Code().String(), Message: st.Message()}
		default:
			return &ProviderError{Code: st.Code().String(), Message: st.Message()}
		}
	}
	return &ProviderError{Code: codes.Unknown.String(), Message: err.Error()}
}
