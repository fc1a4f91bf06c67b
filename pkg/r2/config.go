// Package r2 is a thin convenience layer over the AWS S3 SDK configured for
// Cloudflare R2 endpoints.
//
// A Builder collects connection settings and produces an Operator bound to
// one bucket and credential set:
//
//	op, err := r2.NewBuilder().
//		BucketName("assets").
//		AccessKeyID(os.Getenv("R2_ACCESS_KEY_ID")).
//		SecretAccessKey(os.Getenv("R2_SECRET_ACCESS_KEY")).
//		Endpoint("https://<account>.r2.cloudflarestorage.com").
//		Build(ctx)
//
// The Operator performs single-shot storage calls: no retries, no backoff,
// no caching. Resilience belongs in the caller, not here.
package r2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is the region used when none is set. Cloudflare R2 expects
// the literal "auto".
const DefaultRegion = "auto"

// Builder collects connection settings for an Operator.
//
// All setters return the Builder for chaining. BucketName, AccessKeyID,
// SecretAccessKey, and Endpoint are required; Region defaults to
// DefaultRegion. Build performs no network I/O.
type Builder struct {
	bucketName      string
	accessKeyID     string
	secretAccessKey string
	endpoint        string
	region          string
}

// NewBuilder returns a Builder with the region preset to DefaultRegion.
func NewBuilder() *Builder {
	return &Builder{region: DefaultRegion}
}

// BucketName sets the bucket the Operator will be bound to.
func (b *Builder) BucketName(name string) *Builder {
	b.bucketName = name
	return b
}

// AccessKeyID sets the R2 access key id.
func (b *Builder) AccessKeyID(id string) *Builder {
	b.accessKeyID = id
	return b
}

// SecretAccessKey sets the R2 secret access key.
func (b *Builder) SecretAccessKey(key string) *Builder {
	b.secretAccessKey = key
	return b
}

// Endpoint sets the R2 endpoint URL,
// e.g. "https://<account-id>.r2.cloudflarestorage.com".
func (b *Builder) Endpoint(url string) *Builder {
	b.endpoint = url
	return b
}

// Region sets the region. An empty value restores DefaultRegion.
func (b *Builder) Region(region string) *Builder {
	if region == "" {
		region = DefaultRegion
	}
	b.region = region
	return b
}

// validate checks required fields in a fixed order; the first absent field
// is reported.
func (b *Builder) validate() error {
	switch {
	case b.bucketName == "":
		return &MissingFieldError{Field: "bucket name"}
	case b.accessKeyID == "":
		return &MissingFieldError{Field: "access key id"}
	case b.secretAccessKey == "":
		return &MissingFieldError{Field: "secret access key"}
	case b.endpoint == "":
		return &MissingFieldError{Field: "endpoint"}
	}
	return nil
}

// Build validates the collected settings and constructs an Operator.
//
// A missing required field yields a *MissingFieldError. No network calls
// are made; only the in-memory client handle is created.
//
// The client disables request checksum calculation and response checksum
// validation except where the S3 protocol requires them, matching what R2
// expects from aws-sdk clients.
func (b *Builder) Build(ctx context.Context) (*Operator, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	creds := credentials.NewStaticCredentialsProvider(b.accessKeyID, b.secretAccessKey, "")

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(b.region),
		config.WithCredentialsProvider(creds),
		config.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenRequired),
		config.WithResponseChecksumValidation(aws.ResponseChecksumValidationWhenRequired),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(b.endpoint)
		o.UsePathStyle = true
	})

	return &Operator{
		bucket:  b.bucketName,
		api:     client,
		presign: s3.NewPresignClient(client),
	}, nil
}
