package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
)

// generateErrorFixtures creates test fixtures with sample metadata for each error type
func generateErrorFixtures() []Error {
	return []Error{
		INTERNAL_ERROR.New("internal error occurred").
			WithMetadata(map[string]any{
				"component": "sync",
				"operation": "prepare",
			}),

		CONFIGURATION_FAILED.New("failed to reach endpoint").
			WithMetadata(EndpointMetadata{
				Host: "zec.rocks",
				Port: 443,
			}),

		ENDPOINT_EXHAUSTED.New("all endpoints failed").
			WithMetadata(EndpointExhaustedMetadata{
				Tried: 4,
			}),

		POLICY_VIOLATION.New("slippage above cap").
			WithMetadata(PolicyMetadata{
				SlippageBps:    150,
				MaxSlippageBps: 100,
			}),

		QUOTE_UNAVAILABLE.New("routing service returned 502").
			WithMetadata(RoutingMetadata{
				Endpoint:   "https://router.example.com",
				StatusCode: 502,
			}),

		SUBMIT_FAILED.New("quote expired").
			WithMetadata(RoutingMetadata{
				Endpoint:   "https://router.example.com",
				StatusCode: 409,
			}),

		STATUS_UNAVAILABLE.New("unknown intent").
			WithMetadata(RoutingMetadata{
				Endpoint:   "https://router.example.com",
				StatusCode: 404,
			}),

		NO_ACTIVE_SESSION.New("session not configured"),

		NO_ACCOUNT.New("no account derived yet"),

		NO_CREDENTIAL.New("no seed stored").
			WithMetadata(AccountMetadata{
				AccountId: "primary",
			}),
	}
}

func TestErrors(t *testing.T) {
	fixtures := generateErrorFixtures()

	seen := make(map[uint16]struct{})
	for _, err := range fixtures {
		require.NotNil(t, err)
		require.NotEmpty(t, err.Error())
		require.NotEmpty(t, err.CodeName())
		require.NotEqual(t, grpccodes.OK, err.GrpcCode())

		_, dup := seen[err.Code()]
		require.False(t, dup, "duplicate error code %d", err.Code())
		seen[err.Code()] = struct{}{}
	}
}

func TestErrorMetadata(t *testing.T) {
	err := POLICY_VIOLATION.New("slippage above cap").
		WithMetadata(PolicyMetadata{SlippageBps: 150, MaxSlippageBps: 100})

	metadata := err.Metadata()
	require.Equal(t, "150", metadata["slippage_bps"])
	require.Equal(t, "100", metadata["max_slippage_bps"])
}

func TestErrorWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := CONFIGURATION_FAILED.Wrap(cause)

	require.Contains(t, err.Error(), "CONFIGURATION_FAILED")
	require.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, cause)
	require.Equal(t, cause, errors.Unwrap(err))
}
