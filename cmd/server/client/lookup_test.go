package client

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/xwing-api/internal/errors"
)

func TestLookupError(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		code    errors.Code
		message string
	}{
		{
			name:    "rate limited",
			err:     errors.ToGRPCError(errors.ResourceExhausted("too many lookups")),
			code:    errors.CodeResourceExhausted,
			message: "server is rate limiting lookups, try again shortly",
		},
		{
			name:    "index still loading",
			err:     errors.ToGRPCError(errors.Unavailable("card index still loading")),
			code:    errors.CodeUnavailable,
			message: "server is still loading card data",
		},
		{
			name:    "other status",
			err:     errors.ToGRPCError(errors.DataLoss("duplicate ship found")),
			code:    errors.CodeDataLoss,
			message: "failed to look up cards",
		},
		{
			name:    "not a status",
			err:     stderrors.New("connection reset"),
			code:    errors.CodeInternal,
			message: "failed to look up cards",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := lookupError(tc.err)
			assert.Equal(t, tc.code, errors.GetCode(err))
			assert.Equal(t, tc.message, errors.GetMessage(err))
		})
	}
}

func TestLookupErrorKeepsMeta(t *testing.T) {
	sent := errors.Unavailable("card index still loading").WithMeta("source", "file:cards.json")

	err := lookupError(errors.ToGRPCError(sent))
	assert.Equal(t, "file:cards.json", errors.GetMeta(err)["source"])
}
