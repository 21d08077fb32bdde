package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"garage-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestReportKey(t *testing.T) {
	if got := ReportKey("revenue", 3, 2024, "pdf"); got != "reports/revenue/2024-03.pdf" {
		t.Fatalf("ReportKey() = %q", got)
	}
}

func TestUpload(t *testing.T) {
	fake := &fakePutter{}
	a := NewArchiverWithClient(fake, "garage-reports")

	if err := a.Upload(context.Background(), "reports/stock/2024-01.xlsx", []byte("data"), "application/octet-stream"); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if fake.bucket != "garage-reports" || fake.key != "reports/stock/2024-01.xlsx" {
		t.Errorf("uploaded to %s/%s", fake.bucket, fake.key)
	}
	if string(fake.body) != "data" {
		t.Errorf("body = %q", fake.body)
	}
}

func TestUploadError(t *testing.T) {
	a := NewArchiverWithClient(&fakePutter{err: errors.New("boom")}, "b")
	if err := a.Upload(context.Background(), "k", nil, "text/plain"); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestDisabledArchiverIsNoOp(t *testing.T) {
	var nilArchiver *Archiver
	for _, a := range []*Archiver{Disabled(), nilArchiver} {
		if a.Enabled() {
			t.Fatal("disabled archiver reports enabled")
		}
		if err := a.Upload(context.Background(), "k", []byte("x"), "text/plain"); err != nil {
			t.Fatalf("Upload() on disabled archiver: %v", err)
		}
	}
}

func TestNewArchiverDisabledByConfig(t *testing.T) {
	cfg := &config.Config{}
	a, err := NewArchiver(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Enabled() {
		t.Fatal("archiver should be disabled when reports.archive.enabled is false")
	}

	cfg.Reports.Archive.Enabled = true
	a, err = NewArchiver(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Enabled() {
		t.Fatal("archiver should be disabled without bucket and credentials")
	}
}
