package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/aditi-rao/supplylens-api/config"
)

// ArchiveInterface defines the dataset archive operations. Archiving is
// best-effort: an upload cycle never fails because the archive did.
type ArchiveInterface interface {
	ArchiveDataset(filename string, content []byte) (string, error)
	GetPresignedURL(archiveKey string) (string, error)
	DeleteArchive(archiveKey string) error
}

// S3Service archives uploaded analysis datasets to S3
type S3Service struct {
	client *s3.Client
	bucket string
}

var archiveInstance ArchiveInterface

// InitS3Service initializes the archive service with AWS credentials
func InitS3Service() (ArchiveInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	archiveInstance = &S3Service{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}

	return archiveInstance, nil
}

// GetArchiveService returns the initialized archive service instance, or
// nil when archiving is not configured
func GetArchiveService() ArchiveInterface {
	return archiveInstance
}

// SetArchiveService sets the archive service instance (primarily for testing)
func SetArchiveService(service ArchiveInterface) {
	archiveInstance = service
}

// ArchiveDataset uploads the raw dataset bytes and returns the archive key.
// Keys are of the form datasets/{timestamp}_{filename}.
func (s *S3Service) ArchiveDataset(filename string, content []byte) (string, error) {
	timestamp := time.Now().Unix()
	key := fmt.Sprintf("datasets/%d_%s", timestamp, filepath.Base(filename))

	contentType := "text/csv"
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive dataset to S3: %w", err)
	}

	return key, nil
}

// GetPresignedURL generates a presigned URL for downloading an archived
// dataset. The URL expires after 1 hour.
func (s *S3Service) GetPresignedURL(archiveKey string) (string, error) {
	if archiveKey == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(archiveKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	log.Printf("Generated presigned URL for key %s", archiveKey)
	return request.URL, nil
}

// DeleteArchive deletes an archived dataset from S3
func (s *S3Service) DeleteArchive(archiveKey string) error {
	if archiveKey == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(archiveKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archived dataset: %w", err)
	}

	return nil
}
