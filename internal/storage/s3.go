package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"garage-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client the archiver uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver copies exported reports to an S3-compatible bucket.
// A nil client means archiving is switched off and Upload is a no-op.
type Archiver struct {
	client ObjectPutter
	bucket string
}

// NewArchiver builds an archiver from the reports.archive config section.
// It returns a disabled archiver when archiving is off or incomplete.
func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	a := cfg.Reports.Archive
	if !a.Enabled {
		return Disabled(), nil
	}
	if a.Bucket == "" || a.AccessKey == "" || a.SecretKey == "" {
		log.Println("[Archive] Archiving enabled but bucket or credentials missing, disabling")
		return Disabled(), nil
	}

	region := a.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.AccessKey,
			a.SecretKey,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[Archive] Exported reports will be archived to bucket %s", a.Bucket)
	return NewArchiverWithClient(client, a.Bucket), nil
}

func NewArchiverWithClient(client ObjectPutter, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

func Disabled() *Archiver {
	return &Archiver{}
}

func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil
}

// ReportKey names the object for an exported report, e.g. reports/revenue/2024-03.pdf
func ReportKey(kind string, month, year int, ext string) string {
	return fmt.Sprintf("reports/%s/%04d-%02d.%s", kind, year, month, ext)
}

// Upload stores data under key, replacing any earlier copy
func (a *Archiver) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if !a.Enabled() {
		return nil
	}
	if key == "" {
		return errors.New("archive key is required")
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("[Archive] Uploaded %s (%d bytes)", key, len(data))
	return nil
}
