// Package sink stores downloaded gallery and stored-image files either in a
// local directory or in an S3-compatible bucket.
package sink

import (
	"context"
	"io"

	"github.com/dmitrijs2005/securevision/internal/filex"
)

type Sink interface {
	// Save writes r under name and returns where it ended up.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

type LocalSink struct {
	dir string
}

// NewLocalSink creates dir when missing.
func NewLocalSink(dir string) (*LocalSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalSink{dir: abs}, nil
}

func (s *LocalSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	safe, err := filex.SafeName(name)
	if err != nil {
		return "", err
	}
	return filex.WriteAtomic(s.dir, safe, r)
}
