package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type LocalOption func(*Local)

func WithLocalLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) {
		l.logger = logger
	}
}

// Local writes reports under a base directory.
type Local struct {
	basePath string
	logger   *zap.Logger
}

func NewLocal(basePath string, opts ...LocalOption) *Local {
	l := &Local{
		basePath: basePath,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Write lands the report via a temp file and rename, so a dashboard polling
// the path never sees a half-written report.
func (l *Local) Write(ctx context.Context, name string, reader io.Reader) error {
	fullPath := filepath.Join(l.basePath, name)
	l.logger.Info("writing report", zap.String("path", fullPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}
