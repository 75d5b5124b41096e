package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"

	cfg "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/models"
)

// StagedKeyPrefix holds every object the gateway uploads so the sweeper can find them.
const StagedKeyPrefix = "threads-staging/"

// StagedImage is an image copy reachable by the platform through a public URL.
type StagedImage struct {
	Key string
	URL string
}

// Stager publishes image bytes at a temporary public URL for the image_url transport.
type Stager interface {
	Stage(ctx context.Context, img *models.Image) (*StagedImage, error)
	Release(ctx context.Context, key string) error
}

// ObjectStore is the subset of *s3.Client the R2 stager needs.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type R2Service struct {
	store     ObjectStore
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewR2Client builds an S3 client pointed at the account's R2 endpoint.
func NewR2Client(ctx context.Context, r2 cfg.R2) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	}), nil
}

func NewR2Service(store ObjectStore, r2 cfg.R2) *R2Service {
	return &R2Service{
		store:     store,
		bucket:    r2.BucketName,
		publicURL: strings.TrimRight(r2.PublicURL, "/"),
		now:       time.Now,
	}
}

// Stage uploads img under a random key and returns its public URL.
func (r *R2Service) Stage(ctx context.Context, img *models.Image) (*StagedImage, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate object key: %w", err)
	}
	key := StagedKeyPrefix + id + path.Ext(img.Filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	}
	if _, err := r.store.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload staged image: %w", err)
	}

	return &StagedImage{
		Key: key,
		URL: r.publicURL + "/" + key,
	}, nil
}

func (r *R2Service) Release(ctx context.Context, key string) error {
	_, err := r.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete staged image %s: %w", key, err)
	}
	return nil
}

// ListStale returns staged keys last modified more than maxAge ago.
func (r *R2Service) ListStale(ctx context.Context, maxAge time.Duration) ([]string, error) {
	cutoff := r.now().Add(-maxAge)
	paginator := s3.NewListObjectsV2Paginator(r.store, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(StagedKeyPrefix),
	})

	var stale []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list staged images: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || obj.LastModified.After(cutoff) {
				continue
			}
			stale = append(stale, aws.ToString(obj.Key))
		}
	}
	return stale, nil
}
