package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
)

// SyncTarget copies exported files into a watched sync directory
type SyncTarget struct {
	dir    string
	logger *logrus.Logger
}

// NewSyncTarget creates a target copying files into dir
func NewSyncTarget(dir string, logger *logrus.Logger) *SyncTarget {
	if logger == nil {
		logger = logrus.New()
	}
	return &SyncTarget{dir: dir, logger: logger}
}

func (t *SyncTarget) Name() string {
	return "sync_dir"
}

func (t *SyncTarget) Publish(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to create sync dir %s", t.dir))
	}

	src, err := os.Open(path)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to open %s", path))
	}
	defer src.Close()

	destPath := filepath.Join(t.dir, filepath.Base(path))
	dest, err := os.Create(destPath)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to create %s", destPath))
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to copy to %s", destPath))
	}

	t.logger.WithFields(logrus.Fields{
		"source": path,
		"dest":   destPath,
	}).Info("Copied export to sync directory")
	return nil
}
