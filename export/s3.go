package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Uploader puts exported files into a bucket.
// The AWS library configures itself from the environment.
type S3Uploader struct {
	Bucket  string
	Timeout time.Duration
	svc     s3iface.S3API
	logger  *slog.Logger
}

func NewS3Uploader(bucket string) *S3Uploader {
	sess := session.Must(session.NewSession())
	return newS3Uploader(bucket, s3.New(sess))
}

func newS3Uploader(bucket string, svc s3iface.S3API) *S3Uploader {
	return &S3Uploader{
		Bucket:  bucket,
		Timeout: 10 * time.Second,
		svc:     svc,
		logger:  slog.With("export", "s3"),
	}
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".gz":
		return "application/gzip"
	case ".csv":
		return "text/csv"
	}
	return "application/octet-stream"
}

// Upload puts data at key. The context is bounded by the uploader's timeout.
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte) error {
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}
	_, err := u.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType(key)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == request.CanceledErrorCode {
			u.logger.Error("AWS S3 upload canceled due to timeout", "key", key, "error", err)
		} else {
			u.logger.Error("Failed to upload object", "key", key, "error", err)
		}
		return err
	}
	u.logger.Info("Uploaded to AWS S3", "bucket", u.Bucket, "key", key)
	return nil
}

// UploadFiles uploads each file to prefix/<base name> and returns the keys.
func (u *S3Uploader) UploadFiles(ctx context.Context, prefix string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return keys, err
		}
		key := path.Join(prefix, filepath.Base(f))
		if err := u.Upload(ctx, key, data); err != nil {
			return keys, fmt.Errorf("upload %s: %w", f, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
