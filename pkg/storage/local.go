package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes objects below a directory that the router serves at /static.
type Local struct {
	basePath string
	baseURL  string
}

func NewLocal(basePath, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{
		basePath: basePath,
		baseURL:  strings.TrimRight(publicBaseURL, "/") + "/static",
	}, nil
}

func (l *Local) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(l.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(l.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create file directory: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

// Root is the directory the router mounts at /static.
func (l *Local) Root() string { return l.basePath }
