package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	internalConfig "github.com/sefazor/photoview-backend/internal/config"
)

type S3Storage struct {
	client *s3.Client
	bucket string
	host   string
}

func NewS3Storage(ctx context.Context, cfg *internalConfig.Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		host:   cfg.S3Host,
	}, nil
}

// Upload puts the file under a collision-free key and returns its public URI.
func (s *S3Storage) Upload(ctx context.Context, fileName string, src io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%s-%s", primitive.NewObjectID().Hex(), fileName)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(size),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, key), nil
}
