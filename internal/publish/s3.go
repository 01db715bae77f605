package publish

import (
	"bufio"
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

type S3Option func(*S3)

func WithRegion(region string) S3Option {
	return func(s *S3) {
		s.Region = region
	}
}

func WithBucket(bucket string) S3Option {
	return func(s *S3) {
		s.Bucket = bucket
	}
}

func WithPrefix(prefix string) S3Option {
	return func(s *S3) {
		s.Prefix = prefix
	}
}

func WithEndpoint(endpoint string) S3Option {
	return func(s *S3) {
		s.Endpoint = endpoint
	}
}

func WithS3Logger(l *zap.Logger) S3Option {
	return func(s *S3) {
		s.logger = l
	}
}

// S3 uploads reports to a bucket so CI runs can publish status without a
// shared filesystem.
type S3 struct {
	logger   *zap.Logger
	uploader *s3manager.Uploader

	Endpoint string
	Region   string
	Bucket   string
	Prefix   string
}

func NewS3(opts ...S3Option) *S3 {
	s := &S3{
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	awsConfig := &aws.Config{
		Region: aws.String(s.Region),
	}
	if s.Endpoint != "" {
		awsConfig.Endpoint = aws.String(s.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, _ := session.NewSession(awsConfig)
	s.uploader = s3manager.NewUploader(sess)

	return s
}

func (s *S3) Write(ctx context.Context, name string, reader io.Reader) error {
	key := path.Join(s.Prefix, name)

	s.logger.Debug("uploading report",
		zap.String("bucket", s.Bucket),
		zap.String("key", key),
		zap.String("content_type", contentType(name)),
	)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bufio.NewReader(reader),
		ContentType: aws.String(contentType(name)),
	})
	return err
}

// contentType maps the report extension to its MIME type so browsers render
// bucket links instead of downloading them.
func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
