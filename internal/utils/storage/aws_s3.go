package storage

import (
	"Matosinhos-Grocery-Backend/domain"
	"Matosinhos-Grocery-Backend/internal/utils"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

type (
	// AwsS3 archives receipt documents under deterministic object keys.
	// Put with an identical key overwrites the stored object, which is what
	// makes rescans and retries safe.
	AwsS3 interface {
		Put(ctx context.Context, key string, content []byte, contentType string) (domain.ArchiveReference, error)
		Delete(ctx context.Context, key string) error
		PublicLink(key string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
		prefix string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")

	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
		prefix: strings.Trim(utils.GetConfig("AWS_S3_PREFIX"), "/"),
	}
}

func (s *awsS3) Put(ctx context.Context, key string, content []byte, contentType string) (domain.ArchiveReference, error) {
	objectKey := s.objectKey(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return domain.ArchiveReference{}, err
	}

	return domain.ArchiveReference{
		Key: key,
		URL: s.PublicLink(key),
	}, nil
}

func (s *awsS3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return err
}

func (s *awsS3) PublicLink(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s.objectKey(key))
}

func (s *awsS3) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
