package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is how stored files are referenced by posts and served over HTTP.
const URLPrefix = "/uploads"

// UploadStore keeps uploaded images on local disk under a single root.
// Callers treat Remove as best-effort: log the error, never fail the request.
type UploadStore struct {
	Root string
}

func NewUploadStore(root string) (*UploadStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &UploadStore{Root: root}, nil
}

// Save writes the uploaded file under a uuid name, keeping the original
// extension, and returns the relative URL path to store on the post.
func (s *UploadStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.Root, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return URLPrefix + "/" + name, nil
}

// Remove deletes a previously stored file given its relative URL path.
func (s *UploadStore) Remove(relURL string) error {
	if relURL == "" {
		return nil
	}
	// only the basename is trusted; anything else in the path is discarded
	name := filepath.Base(strings.TrimPrefix(relURL, URLPrefix+"/"))
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.Root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
