package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rogerio-castellano/storefront-console/internal/config"
)

// S3Uploader writes to any S3-compatible bucket (AWS S3, MinIO and the like).
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	folder  string
	baseURL string
}

func NewS3(ctx context.Context, cfg config.S3Config, folder string) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  folder,
		baseURL: publicBaseURL(cfg, region),
	}, nil
}

// publicBaseURL is where uploaded objects can be read from.
func publicBaseURL(cfg config.S3Config, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	case cfg.Endpoint != "":
		u, err := url.Parse(cfg.Endpoint)
		if err == nil && u.Host != "" {
			return u.Scheme + "://" + cfg.Bucket + "." + u.Host
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	key := objectKey(u.folder, filename)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
