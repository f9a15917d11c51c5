package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkarpov/tasktrack/internal/common"
	sc "github.com/dkarpov/tasktrack/internal/server/config"
	"github.com/dkarpov/tasktrack/internal/server/models"
	"github.com/dkarpov/tasktrack/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 15 * time.Minute

// seams for tests
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService manages task attachment metadata and hands out
// presigned object-storage URLs for the payloads. Every operation is scoped
// through the parent task's owner.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		config:      config,
	}
}

func storageKey(taskID string) string {
	return fmt.Sprintf("tasks/%s/%v", taskID, uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) presignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *AttachmentService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Create records attachment metadata under the owner's task and returns a
// presigned PUT URL for uploading the payload.
func (s *AttachmentService) Create(ctx context.Context, ownerID, taskID, fileName string) (*models.Attachment, string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || utf8.RuneCountInString(fileName) > 255 {
		v := common.NewValidationError()
		v.Add("fileName", "must be between 1 and 255 characters")
		return nil, "", v
	}

	// the foreign-task case surfaces as NotFound, same as a missing task
	if _, err := s.repomanager.Tasks(s.db).Get(ctx, ownerID, taskID); err != nil {
		return nil, "", err
	}

	key := storageKey(taskID)

	url, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	attachment, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{
		TaskID:     taskID,
		FileName:   fileName,
		StorageKey: key,
	})
	if err != nil {
		return nil, "", err
	}

	return attachment, url, nil
}

// List returns the attachments of the owner's task.
func (s *AttachmentService) List(ctx context.Context, ownerID, taskID string) ([]*models.Attachment, error) {
	if _, err := s.repomanager.Tasks(s.db).Get(ctx, ownerID, taskID); err != nil {
		return nil, err
	}
	return s.repomanager.Attachments(s.db).ListByTask(ctx, ownerID, taskID)
}

// Download returns the attachment plus a presigned GET URL for its payload.
func (s *AttachmentService) Download(ctx context.Context, ownerID, taskID, attachmentID string) (*models.Attachment, string, error) {
	attachment, err := s.repomanager.Attachments(s.db).Get(ctx, ownerID, taskID, attachmentID)
	if err != nil {
		return nil, "", err
	}

	url, err := s.presignedGetURL(ctx, attachment.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning download: %w", err)
	}

	return attachment, url, nil
}

// Delete removes the attachment record. The stored payload is left for
// bucket lifecycle rules to reclaim.
func (s *AttachmentService) Delete(ctx context.Context, ownerID, taskID, attachmentID string) error {
	return s.repomanager.Attachments(s.db).Delete(ctx, ownerID, taskID, attachmentID)
}
