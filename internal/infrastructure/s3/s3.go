// Package s3 is the only place holding object-storage credentials. Handlers
// and services go through it so the secret key and bucket layout never reach
// a browser; clients only ever see short-lived presigned URLs or proxied
// bytes.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"design-market-api/config"
)

var ErrObjectNotFound = errors.New("object not found")

type (
	Client struct {
		logger   *zap.Logger
		client   *s3.Client
		presign  *s3.PresignClient
		bucket   string
		endpoint string
	}

	// Object describes a stored object as returned to API clients.
	Object struct {
		Key         string
		URL         string
		Size        int64
		ContentType string
	}

	// ListedObject is one entry of a List call.
	ListedObject struct {
		Key          string
		Size         int64
		LastModified time.Time
		URL          string
	}

	Listing struct {
		Objects     []ListedObject
		KeyCount    int32
		IsTruncated bool
		NextToken   string
	}
)

func New(ctx context.Context, logger *zap.Logger, cfg config.S3) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKeyID,
					SecretAccessKey: cfg.SecretAccessKey,
				}, nil
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		// path-style for S3-compatible providers (Backblaze B2, MinIO)
		o.UsePathStyle = true
		o.Region = cfg.Region
	})

	return &Client{
		logger:   logger,
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
	}, nil
}

// Upload puts data at key, overwriting any existing object.
func (c *Client) Upload(ctx context.Context, data []byte, key, contentType string) (*Object, error) {
	if key == "" {
		return nil, errors.New("object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Object{
		Key:         key,
		URL:         c.PublicURL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// PresignDownload returns a time-limited URL for one object, with an
// attachment disposition carrying the base file name.
func (c *Client) PresignDownload(ctx context.Context, key, fileName string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(c.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", fileName)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}

	return req.URL, nil
}

// Download fetches an object for proxying. The caller owns the returned body.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", 0, ErrObjectNotFound
		}
		return nil, "", 0, fmt.Errorf("failed to fetch from S3: %w", err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return out.Body, contentType, aws.ToInt64(out.ContentLength), nil
}

// List is a pagination passthrough; ordering is whatever the provider returns.
func (c *Client) List(ctx context.Context, prefix string, maxKeys int32, continuationToken string) (*Listing, error) {
	in := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxKeys),
	}
	if continuationToken != "" {
		in.ContinuationToken = aws.String(continuationToken)
	}

	out, err := c.client.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects: %w", err)
	}

	listing := &Listing{
		KeyCount:    aws.ToInt32(out.KeyCount),
		IsTruncated: aws.ToBool(out.IsTruncated),
		NextToken:   aws.ToString(out.NextContinuationToken),
	}
	for _, item := range out.Contents {
		listing.Objects = append(listing.Objects, ListedObject{
			Key:          aws.ToString(item.Key),
			Size:         aws.ToInt64(item.Size),
			LastModified: aws.ToTime(item.LastModified),
			URL:          c.PublicURL(aws.ToString(item.Key)),
		})
	}

	return listing, nil
}

// Delete removes an object. Deleting a key that is already gone is success.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)
}

func (c *Client) GetBucket() string { return c.bucket }

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
