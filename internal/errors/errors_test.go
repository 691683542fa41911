package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/xwing-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "invalid query",
			code:     errors.CodeInvalidArgument,
			message:  "You need to specify a slot to search by points value.",
			expected: "INVALID_ARGUMENT: You need to specify a slot to search by points value.",
		},
		{
			name:     "duplicate ship",
			code:     errors.CodeDataLoss,
			message:  "duplicate ship found: xwing",
			expected: "DATA_LOSS: duplicate ship found: xwing",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to fetch dataset")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to fetch dataset", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("dataset not cached").WithMeta("key", "dataset:xwing:v1")
	wrapped := errors.Wrap(baseErr, "cache miss")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("dataset:xwing:v1", errors.GetMeta(wrapped)["key"])
	s.True(errors.IsNotFound(wrapped))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("dial tcp: timeout")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "dataset source unavailable")

	s.Equal(errors.CodeUnavailable, wrapped.Code)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.True(errors.Is(errors.DataLoss("a"), errors.DataLoss("b")))
	s.False(errors.Is(errors.DataLoss("a"), errors.InvalidArgument("a")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Equal("bad query", errors.GetMessage(errors.InvalidArgument("bad query")))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Equal("", errors.GetMessage(nil))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.ResourceExhausted("slow down").WithMeta("limit", 2)

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.ResourceExhausted, st.Code())
	s.Equal("slow down", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.True(errors.IsResourceExhausted(back))
	s.Equal("2", errors.GetMeta(back)["limit"])
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeInvalidArgument, codes.InvalidArgument},
		{errors.CodeDataLoss, codes.DataLoss},
		{errors.CodeInternal, codes.Internal},
		{errors.CodeUnavailable, codes.Unavailable},
		{errors.CodeResourceExhausted, codes.ResourceExhausted},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("dataset.url", "  ", vb)
	errors.ValidateRange("grpc.port", 70000, 1, 65535, vb)
	errors.ValidateRange("lookup.max_results", 10, 1, 50, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Contains(fields, "dataset.url")
	s.Contains(fields, "grpc.port")
	s.NotContains(fields, "lookup.max_results")
	s.Equal("validation failed: dataset.url: is required; grpc.port: must be between 1 and 65535", err.(*errors.Error).Message)

	s.NoError(errors.NewValidationBuilder().Build())
}
