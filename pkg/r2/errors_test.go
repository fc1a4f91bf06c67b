package r2

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAPIError implements smithy.APIError for testing error code mapping.
type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) Error() string                 { return fmt.Sprintf("%s: %s", e.code, e.message) }
func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return e.message }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

var _ smithy.APIError = (*mockAPIError)(nil)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "typed NoSuchKey",
			err:      &types.NoSuchKey{},
			sentinel: ErrNotFound,
		},
		{
			name:     "typed NotFound",
			err:      &types.NotFound{},
			sentinel: ErrNotFound,
		},
		{
			name:     "typed NoSuchBucket",
			err:      &types.NoSuchBucket{},
			sentinel: ErrBucketNotFound,
		},
		{
			name:     "api error NoSuchKey",
			err:      &mockAPIError{code: "NoSuchKey", message: "key missing"},
			sentinel: ErrNotFound,
		},
		{
			name:     "api error AccessDenied",
			err:      &mockAPIError{code: "AccessDenied", message: "denied"},
			sentinel: ErrAccessDenied,
		},
		{
			name:     "api error InvalidAccessKeyId",
			err:      &mockAPIError{code: "InvalidAccessKeyId", message: "bad key"},
			sentinel: ErrInvalidCredentials,
		},
		{
			name:     "api error SignatureDoesNotMatch",
			err:      &mockAPIError{code: "SignatureDoesNotMatch", message: "bad sig"},
			sentinel: ErrInvalidCredentials,
		},
		{
			name:     "api error NoSuchBucket",
			err:      &mockAPIError{code: "NoSuchBucket", message: "no bucket"},
			sentinel: ErrBucketNotFound,
		},
		{
			name:     "unknown api error passes through",
			err:      &mockAPIError{code: "Teapot", message: "short and stout"},
			sentinel: nil,
		},
		{
			name:     "message fallback 404",
			err:      errors.New("https response error StatusCode: 404"),
			sentinel: ErrNotFound,
		},
		{
			name:     "message fallback 403",
			err:      errors.New("operation error S3: GetObject, 403 Forbidden"),
			sentinel: ErrAccessDenied,
		},
		{
			name:     "plain transport error passes through",
			err:      errors.New("dial tcp: connection refused"),
			sentinel: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.sentinel == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.sentinel)
			// The original message must stay reachable for diagnostics.
			assert.Contains(t, got.Error(), tt.err.Error())
		})
	}
}

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "with key",
			err:      &OperationError{Op: "Download", Bucket: "assets", Key: "a/b.txt", Err: ErrNotFound},
			expected: "r2 Download: assets/a/b.txt: object not found",
		},
		{
			name:     "without key",
			err:      &OperationError{Op: "ListObjects", Bucket: "assets", Err: errors.New("boom")},
			expected: "r2 ListObjects: assets: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("%w: gone", ErrNotFound)
	err := &OperationError{Op: "Download", Bucket: "b", Key: "k", Err: cause}

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAccessDenied(err))

	var opErr *OperationError
	require.ErrorAs(t, error(err), &opErr)
	assert.Equal(t, "Download", opErr.Op)
}

func TestSentinelHelpers(t *testing.T) {
	assert.True(t, IsBucketNotFound(fmt.Errorf("wrap: %w", ErrBucketNotFound)))
	assert.True(t, IsAccessDenied(fmt.Errorf("wrap: %w", ErrAccessDenied)))
	assert.True(t, IsInvalidCredentials(fmt.Errorf("wrap: %w", ErrInvalidCredentials)))
	assert.False(t, IsNotFound(errors.New("other")))
}
