package manifest

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/lfnd/internal/errors"
)

// Source opens a manifest.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)

	// String describes the source for logs and errors.
	String() string
}

// FileSource reads a manifest from the local filesystem.
type FileSource string

// Open implements Source.
func (f FileSource) Open(context.Context) (io.ReadCloser, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, errors.New("L020").WithDetail(string(f)).Wrap(err)
	}
	return file, nil
}

func (f FileSource) String() string {
	return string(f)
}

// ObjectGetter is the subset of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest from an S3 object.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.New("L020").WithDetail(s.String()).Wrap(err)
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// S3Scheme prefixes S3 manifest locations.
const S3Scheme = "s3://"

// IsS3 reports whether location names an S3 object.
func IsS3(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, S3Scheme)
	if !ok {
		return "", "", errors.New("L021").WithDetail(location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("L021").WithDetailf("%q needs both a bucket and a key", location)
	}
	return bucket, key, nil
}

// SourceFor returns the source for location. The client is only used, and
// only required, for s3:// locations.
func SourceFor(location string, client ObjectGetter) (Source, error) {
	if location == "" {
		return nil, errors.New("L021").WithDetail("no manifest location given")
	}
	if !IsS3(location) {
		return FileSource(location), nil
	}
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("L021").WithDetailf("no S3 client for %s", location)
	}
	return &S3Source{Client: client, Bucket: bucket, Key: key}, nil
}

// S3Options configures NewS3Client.
type S3Options struct {
	// Region defaults to $AWS_REGION, then us-east-1.
	Region string

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string

	UsePathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from the standard
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN variables;
// without them requests are anonymous, which suits public buckets.
func NewS3Client(opts S3Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	o := s3.Options{
		Region:       region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  envCredentials(),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	}))
}
