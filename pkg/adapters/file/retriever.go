package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/luckydraw/pkg/ports"
	"github.com/spf13/afero"
)

// Retriever implements ports.Retriever on top of an afero filesystem.
// Identifiers are slash-separated paths relative to the data directory.
type Retriever struct {
	fs afero.Fs
}

// New creates a Retriever rooted at dir on the OS filesystem.
func New(dir string) *Retriever {
	return NewFromFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewFromFs creates a Retriever over an existing filesystem (e.g. afero.NewMemMapFs in tests).
func NewFromFs(fsys afero.Fs) *Retriever {
	return &Retriever{fs: fsys}
}

// Retrieve reads the resource file identified by id.
func (r *Retriever) Retrieve(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if id == "" || escapesRoot(id) {
		return "", fmt.Errorf("invalid resource identifier %q", id)
	}
	clean := path.Clean("/" + id)

	data, err := afero.ReadFile(r.fs, filepath.FromSlash(clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ports.ErrResourceNotFound, id)
		}
		return "", fmt.Errorf("failed to read resource %s: %w", id, err)
	}
	return string(data), nil
}

func escapesRoot(id string) bool {
	for _, seg := range strings.Split(id, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
