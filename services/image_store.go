package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ImageStore persists uploaded food photos and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// S3ImageStore uploads to a public-read S3 bucket fronted by a CDN.
type S3ImageStore struct {
	client *s3.Client
	bucket string
	cdnURL string
}

func NewS3ImageStore(ctx context.Context, region, bucket, cdnURL string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3ImageStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		cdnURL: cdnURL,
	}, nil
}

func (s *S3ImageStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("food-images/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.cdnURL, key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}
