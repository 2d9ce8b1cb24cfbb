package wiegand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataErrorDescriptions(t *testing.T) {
	testCases := []struct {
		kind DataError
		want string
	}{
		{Communication, "communication error"},
		{SizeTooBig, "message size too big"},
		{SizeUnexpected, "message size unexpected"},
		{DecodeFailed, "unsupported message format"},
		{VerificationFailed, "message verification failed"},
		{DataError(42), "unknown error"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, tc.kind.Error())
	}
}
