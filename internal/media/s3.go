// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the subset of [s3.Client] used by [S3Storage].
type ObjectAPI interface {
	PutObject(context context.Context, input *s3.PutObjectInput, options ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(context context.Context, input *s3.DeleteObjectInput, options ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores objects in a private S3-compatible bucket.
type S3Storage struct {
	client ObjectAPI
	bucket string
}

// NewS3Storage resolves credentials from the default AWS chain. A non-empty
// endpoint targets R2 or MinIO; path-style addressing is always used.
func NewS3Storage(context context.Context, bucket, region, endpoint string) (*S3Storage, error) {
	options := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		options = append(options, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context, options...)
	if err != nil {
		return nil, fmt.Errorf("media_s3_config_failed: %w", err)
	}

	baseEndpoint := cfg.BaseEndpoint
	if endpoint != "" {
		baseEndpoint = aws.String(endpoint)
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: baseEndpoint,
		UsePathStyle: true,
	})

	return NewS3StorageWithClient(client, bucket), nil
}

// NewS3StorageWithClient wraps an existing client.
func NewS3StorageWithClient(client ObjectAPI, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket}
}

// Put uploads body as a private object.
func (storage *S3Storage) Put(context context.Context, key, contentType string, body io.Reader, size int64) (Object, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return Object{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(storage.bucket),
		Key:         aws.String(cleaned),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := storage.client.PutObject(context, input); err != nil {
		return Object{}, fmt.Errorf("media_s3_put_failed: %w", err)
	}

	return Object{
		Key:         cleaned,
		Location:    fmt.Sprintf("s3://%s/%s", storage.bucket, cleaned),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Delete removes an object from the bucket.
func (storage *S3Storage) Delete(context context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}

	_, err = storage.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(storage.bucket),
		Key:    aws.String(cleaned),
	})
	if err != nil {
		return fmt.Errorf("media_s3_delete_failed: %w", err)
	}
	return nil
}
