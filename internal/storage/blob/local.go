package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var _ Store = (*LocalStore)(nil)

// LocalStore writes objects to a directory that the HTTP server exposes
// under publicPath.
type LocalStore struct {
	dir        string
	publicPath string
}

func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &LocalStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

// Dir is the directory objects are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if key != path.Base(key) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}

	//nolint:gosec
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	return s.publicPath + "/" + key, nil
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok || key == "" || key != path.Base(key) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}

	return nil
}
