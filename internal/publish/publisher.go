// Package publish delivers rendered reports to their destination: stdout for
// interactive use, a local file for CI artifacts, or S3 for shared dashboards.
package publish

import (
	"context"
	"io"
)

type Publisher interface {
	Write(ctx context.Context, name string, reader io.Reader) error
}
