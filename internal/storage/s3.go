// Package storage wraps the S3-compatible blob store holding uploaded
// spreadsheet files in the excel-files bucket.
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/pkg/config"
)

// Client is the blob store client used for spreadsheet uploads and
// deletions.
type Client struct {
	client *s3.Client
	cfg    *config.StorageConfig
	log    *zap.Logger
}

// New builds a blob store client and ensures the bucket exists.
func New(cfg *config.StorageConfig, log *zap.Logger) (*Client, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	c := &Client{
		client: client,
		cfg:    cfg,
		log:    log,
	}

	if err := c.ensureBucketExists(context.Background()); err != nil {
		log.Warn("Failed to ensure bucket exists", zap.Error(err))
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	})
	if err == nil {
		return nil
	}

	c.log.Info("Creating bucket", zap.String("bucket", c.cfg.Bucket))

	_, err = c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	})
	return err
}

// Upload stores an object under key in the configured bucket.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})

	if err != nil {
		c.log.Error("Failed to upload file to blob store",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	c.log.Info("File uploaded to blob store",
		zap.String("key", key),
		zap.Int64("size", size))

	return nil
}

// Delete removes an object by key.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		c.log.Error("Failed to delete file from blob store",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	c.log.Info("File deleted from blob store", zap.String("key", key))

	return nil
}

// PublicURL returns the public retrieval URL for an object key.
func (c *Client) PublicURL(key string) string {
	base := c.cfg.PublicBaseURL
	if base == "" {
		base = c.cfg.Endpoint
	}
	return strings.TrimRight(base, "/") + "/" + c.cfg.Bucket + "/" + key
}
