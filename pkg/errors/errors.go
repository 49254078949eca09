package errors

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type EndpointMetadata struct {
	Host string `json:"host"`
	Port uint32 `json:"port"`
}

type EndpointExhaustedMetadata struct {
	Tried int `json:"tried"`
}

type PolicyMetadata struct {
	SlippageBps    int `json:"slippage_bps"`
	MaxSlippageBps int `json:"max_slippage_bps"`
}

type RoutingMetadata struct {
	Endpoint   string `json:"endpoint"`
	StatusCode int    `json:"status_code"`
}

type AccountMetadata struct {
	AccountId string `json:"account_id"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}

var CONFIGURATION_FAILED = Code[EndpointMetadata]{
	1,
	"CONFIGURATION_FAILED",
	grpccodes.Internal,
}

var ENDPOINT_EXHAUSTED = Code[EndpointExhaustedMetadata]{
	2,
	"ENDPOINT_EXHAUSTED",
	grpccodes.Unavailable,
}

var POLICY_VIOLATION = Code[PolicyMetadata]{
	3,
	"POLICY_VIOLATION",
	grpccodes.FailedPrecondition,
}

var QUOTE_UNAVAILABLE = Code[RoutingMetadata]{4, "QUOTE_UNAVAILABLE", grpccodes.Unavailable}
var SUBMIT_FAILED = Code[RoutingMetadata]{5, "SUBMIT_FAILED", grpccodes.Unavailable}
var STATUS_UNAVAILABLE = Code[RoutingMetadata]{6, "STATUS_UNAVAILABLE", grpccodes.Unavailable}

var NO_ACTIVE_SESSION = Code[any]{7, "NO_ACTIVE_SESSION", grpccodes.FailedPrecondition}
var NO_ACCOUNT = Code[any]{8, "NO_ACCOUNT", grpccodes.FailedPrecondition}

var NO_CREDENTIAL = Code[AccountMetadata]{
	9,
	"NO_CREDENTIAL",
	grpccodes.FailedPrecondition,
}
