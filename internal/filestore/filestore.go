// Package filestore stores uploaded image files outside the database.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path under which disk-stored files are served.
const URLPrefix = "/uploads/"

// ErrInvalidURL is returned by Delete for URLs the storage did not issue.
var ErrInvalidURL = errors.New("not a stored file url")

// Storage saves files and returns the URL clients fetch them from.
type Storage interface {
	Save(ctx context.Context, ext string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Disk keeps files in a single directory.
type Disk struct {
	Dir string
}

// NewDisk creates dir if needed and returns a Disk rooted there.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Disk{Dir: dir}, nil
}

// Save writes data under a fresh random name with the given extension.
func (d *Disk) Save(ctx context.Context, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	tmp, err := os.CreateTemp(d.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.Dir, name)); err != nil {
		return "", fmt.Errorf("storing file: %w", err)
	}

	return URLPrefix + name, nil
}

// Delete removes the file behind url. Missing files are not an error.
func (d *Disk) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}

	if err := os.Remove(filepath.Join(d.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Handler serves stored files read-only. Directory listings are refused.
func (d *Disk) Handler() http.Handler {
	files := http.StripPrefix(URLPrefix, http.FileServer(http.Dir(d.Dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, URLPrefix)
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(path.Base(name), ".") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
