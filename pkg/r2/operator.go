package r2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultCacheControl is attached to uploaded objects when no cache-control
// option is given.
const DefaultCacheControl = "no-cache"

// MaxListKeys caps ListObjects results. No continuation token is exposed;
// callers needing more than one page should use the SDK directly.
const MaxListKeys = 10

// ObjectAPI is the subset of the S3 client the Operator calls.
// *s3.Client satisfies it; tests substitute fakes.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Presigner generates presigned requests. *s3.PresignClient satisfies it.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Operator performs object operations against a single bucket.
//
// It is immutable once created and holds no per-call state, so it is safe
// for concurrent use. Every method issues exactly one remote call and
// surfaces the outcome as-is, wrapped in an *OperationError on failure.
type Operator struct {
	bucket  string
	api     ObjectAPI
	presign Presigner
}

// NewOperator builds an Operator around an existing client. Most callers
// should use Builder.Build instead; this constructor exists for wiring
// custom or fake clients.
func NewOperator(bucket string, api ObjectAPI, presign Presigner) *Operator {
	return &Operator{bucket: bucket, api: api, presign: presign}
}

// Bucket returns the bucket name the Operator is bound to.
func (o *Operator) Bucket() string {
	return o.bucket
}

// ObjectMeta describes a stored object without its content.
type ObjectMeta struct {
	Key          string
	Size         int64
	ContentType  string
	CacheControl string
	ETag         string
	LastModified time.Time
}

type uploadOptions struct {
	cacheControl string
}

// UploadOption adjusts how an object is stored.
type UploadOption func(*uploadOptions)

// WithCacheControl sets the Cache-Control directive stored with the object.
// Without it, DefaultCacheControl is used.
func WithCacheControl(value string) UploadOption {
	return func(o *uploadOptions) {
		o.cacheControl = value
	}
}

// UploadBinary stores data under key with the given content type. The
// remote object is created or overwritten.
func (o *Operator) UploadBinary(ctx context.Context, key, mimeType string, data []byte, opts ...UploadOption) error {
	return o.put(ctx, "UploadBinary", key, mimeType, bytes.NewReader(data), opts)
}

// UploadFile reads the local file at path fully into memory and stores it
// under key. A local read failure is reported before any remote call is
// made, so no partial object is ever left behind.
func (o *Operator) UploadFile(ctx context.Context, key, mimeType, path string, opts ...UploadOption) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &OperationError{Op: "UploadFile", Bucket: o.bucket, Key: key, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return o.put(ctx, "UploadFile", key, mimeType, bytes.NewReader(data), opts)
}

func (o *Operator) put(ctx context.Context, op, key, mimeType string, body io.Reader, opts []UploadOption) error {
	options := uploadOptions{cacheControl: DefaultCacheControl}
	for _, opt := range opts {
		opt(&options)
	}

	_, err := o.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(o.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(mimeType),
		CacheControl: aws.String(options.cacheControl),
	})
	if err != nil {
		return o.wrap(op, key, err)
	}
	return nil
}

// Download retrieves the object's full byte content.
func (o *Operator) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, o.wrap("Download", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, o.wrap("Download", key, err)
	}
	return data, nil
}

// Delete removes the object. Deleting a key that does not exist follows
// the remote store's semantics; for R2 that is a successful no-op.
func (o *Operator) Delete(ctx context.Context, key string) error {
	_, err := o.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return o.wrap("Delete", key, err)
	}
	return nil
}

// ListObjects returns at most MaxListKeys object keys from the bucket, in
// whatever order the store returns them.
func (o *Operator) ListObjects(ctx context.Context) ([]string, error) {
	out, err := o.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(o.bucket),
		MaxKeys: aws.Int32(MaxListKeys),
	})
	if err != nil {
		return nil, o.wrap("ListObjects", "", err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if len(keys) == MaxListKeys {
			break
		}
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

// Stat returns metadata for the object at key without downloading it.
func (o *Operator) Stat(ctx context.Context, key string) (*ObjectMeta, error) {
	out, err := o.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, o.wrap("Stat", key, err)
	}

	return &ObjectMeta{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		CacheControl: aws.ToString(out.CacheControl),
		ETag:         cleanETag(aws.ToString(out.ETag)),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// Exists reports whether an object is stored under key. A not-found
// response is not an error.
func (o *Operator) Exists(ctx context.Context, key string) (bool, error) {
	_, err := o.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PresignGet returns a time-limited URL that downloads the object at key
// without credentials.
func (o *Operator) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := o.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", o.wrap("PresignGet", key, err)
	}
	return req.URL, nil
}

func (o *Operator) wrap(op, key string, err error) error {
	return &OperationError{Op: op, Bucket: o.bucket, Key: key, Err: classify(err)}
}

// cleanETag removes surrounding quotes from an ETag value.
// S3 returns ETags with quotes, e.g. "d41d8cd98f00b204e9800998ecf8427e".
func cleanETag(etag string) string {
	return strings.Trim(etag, "\"")
}
