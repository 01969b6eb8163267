package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
)

// S3TargetConfig holds the upload destination
type S3TargetConfig struct {
	Region string
	Bucket string
	Prefix string
}

// S3Target uploads exported files to an S3 bucket
type S3Target struct {
	config   S3TargetConfig
	uploader *s3manager.Uploader
	logger   *logrus.Logger
}

// NewS3Target creates an S3 upload target
func NewS3Target(config S3TargetConfig, logger *logrus.Logger) (*S3Target, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if config.Bucket == "" {
		return nil, errors.NewConfigError(errors.CodeMissingSetting, "s3 bucket is required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.Region),
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeConnectionFailed,
			"failed to create aws session")
	}

	return &S3Target{
		config:   config,
		uploader: s3manager.NewUploader(sess),
		logger:   logger,
	}, nil
}

func (t *S3Target) Name() string {
	return "s3"
}

func (t *S3Target) Publish(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to open %s", path))
	}
	defer file.Close()

	key := filepath.Base(path)
	if t.config.Prefix != "" {
		key = t.config.Prefix + "/" + key
	}

	result, err := t.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(t.config.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to upload %s", key))
	}

	t.logger.WithFields(logrus.Fields{
		"bucket":   t.config.Bucket,
		"key":      key,
		"location": result.Location,
	}).Info("Uploaded export to S3")
	return nil
}
