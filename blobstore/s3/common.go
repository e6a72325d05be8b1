package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configure New.
type Options struct {
	// Prefix is prepended to all blob names.
	Prefix string
	// Region overrides the region from the default credential chain.
	Region string
	// EndpointURL overrides the S3 endpoint, for S3-compatible services.
	EndpointURL string
	// UsePathStyle forces path-style addressing, which many
	// S3-compatible services require.
	UsePathStyle bool
}

// WithPrefix sets the root prefix for all blob names.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the bucket region.
func WithRegion(region string) func(*Options) {
	return func(o *Options) { o.Region = region }
}

// WithEndpoint sets a custom endpoint and enables path-style addressing.
func WithEndpoint(url string) func(*Options) {
	return func(o *Options) {
		o.EndpointURL = url
		o.UsePathStyle = true
	}
}

// New creates a Store using the default AWS credential chain
// (environment, shared config, instance roles).
func New(ctx context.Context, bucket string, optFns ...func(*Options)) (*Store, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = &opts.EndpointURL
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewStore(client, bucket, opts.Prefix), nil
}
