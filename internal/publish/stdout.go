package publish

import (
	"context"
	"io"
	"os"
)

// Stdout writes the report to standard output, ignoring the name.
type Stdout struct {
	Out io.Writer
}

func NewStdout() *Stdout {
	return &Stdout{Out: os.Stdout}
}

func (s *Stdout) Write(ctx context.Context, name string, reader io.Reader) error {
	_, err := io.Copy(s.Out, reader)
	return err
}
