package store

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/CK3thou/youtube-transcripts/types"
)

// PutObjectAPI is the slice of the S3 client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures NewS3Store. Empty values fall back to the AWS default chain.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	Endpoint     string
	UsePathStyle bool
}

// S3Store uploads transcript documents to <prefix>/<batch>/<file>.
type S3Store struct {
	api     PutObjectAPI
	bucket  string
	prefix  string
	batchID string
}

// NewS3Store builds an S3 client from the default AWS configuration chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3StoreWith(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreWith wraps an existing client.
func NewS3StoreWith(api PutObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{
		api:     api,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		batchID: uuid.NewString(),
	}
}

// BatchID is the key segment shared by all uploads of this store.
func (s *S3Store) BatchID() string { return s.batchID }

// Key returns the object key for a file name.
func (s *S3Store) Key(name string) string {
	return path.Join(s.prefix, s.batchID, name)
}

// Persist implements Persister.
func (s *S3Store) Persist(ctx context.Context, seq int, r types.TranscriptResult) (string, error) {
	key := s.Key(Filename(seq, r))
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(Document(r)),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata: map[string]string{
			"video-id": r.Video.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
