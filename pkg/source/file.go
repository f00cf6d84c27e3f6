package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// File reads a payload from the local filesystem.
type File struct {
	Path   string
	Format hierarchy.Format
}

// NewFile validates path and returns a file source. An empty format is
// inferred from the extension, then from the content.
func NewFile(path string, format hierarchy.Format) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if format == hierarchy.FormatAuto {
		format = hierarchy.FormatFromPath(path)
	}
	return &File{Path: path, Format: format}, nil
}

func (f *File) Ref() string { return f.Path }

func (f *File) Load(ctx context.Context) (*hierarchy.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.ErrCodeSourceNotFound, "file not found: %s", f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return hierarchy.Decode(data, f.Format)
}

// Reader decodes a payload from an arbitrary stream, such as standard input.
// It can be loaded once.
type Reader struct {
	Name   string
	R      io.Reader
	Format hierarchy.Format
}

func (r *Reader) Ref() string { return r.Name }

func (r *Reader) Load(ctx context.Context) (*hierarchy.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r.R)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.Name, err)
	}
	return hierarchy.Decode(data, r.Format)
}

var (
	_ Source = (*File)(nil)
	_ Source = (*Reader)(nil)
)
