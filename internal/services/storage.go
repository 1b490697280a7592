package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadExtensions lists the file types the extractor can turn into text.
var uploadExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// UploadStore persists uploaded JD and resume files under one directory,
// each saved under a unique name so concurrent uploads never collide.
type UploadStore interface {
	Save(file *multipart.FileHeader, prefix string) (string, error)
	Remove(path string) error
}

type uploadStore struct {
	dir string
}

// NewUploadStore creates the upload directory if it does not exist yet.
func NewUploadStore(dir string) (UploadStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &uploadStore{dir: dir}, nil
}

// Save implements UploadStore, returning the stored file's path. The prefix
// ("jd", "resume") keeps the two document kinds tellable apart on disk.
func (s *uploadStore) Save(file *multipart.FileHeader, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !uploadExtensions[ext] {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path, nil
}

// Remove implements UploadStore.
func (s *uploadStore) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
