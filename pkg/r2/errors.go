package r2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel causes for operation failures.
var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrBucketNotFound indicates the bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MissingFieldError reports a required configuration field that was left
// empty when Build was called. It is only returned during client
// construction; supplying the field and rebuilding recovers.
type MissingFieldError struct {
	// Field is the human-readable name of the absent field,
	// e.g. "bucket name".
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return "r2 config: missing required field: " + e.Field
}

// OperationError wraps a failed storage call with context.
//
// Err holds the classified cause: one of the sentinel errors above when the
// failure could be recognized, otherwise the raw transport error. The
// original SDK error message is always preserved in the chain.
type OperationError struct {
	// Op is the operation that failed (e.g. "Download", "Delete").
	Op string

	// Bucket is the bucket the operator is bound to.
	Bucket string

	// Key is the object key, if applicable.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("r2 %s: %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("r2 %s: %s: %v", e.Op, e.Bucket, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates an object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBucketNotFound returns true if the error indicates the bucket does not exist.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidCredentials returns true if the error indicates authentication failed.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// classify maps an S3 SDK error to a sentinel cause, wrapping it so the
// original message stays reachable through Unwrap. Unrecognized errors are
// returned unchanged.
func classify(err error) error {
	// Typed S3 errors first
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket

	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.As(err, &noSuchBucket):
		return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
	}

	// Smithy API error codes
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return err
	}

	// Fallback: match the message for common cases
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchKey"), strings.Contains(msg, "NotFound"), strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(msg, "NoSuchBucket"):
		return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
	case strings.Contains(msg, "AccessDenied"), strings.Contains(msg, "Forbidden"), strings.Contains(msg, "403"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case strings.Contains(msg, "InvalidAccessKeyId"), strings.Contains(msg, "SignatureDoesNotMatch"):
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return err
}
