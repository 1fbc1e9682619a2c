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

// FileStorage keeps task attachments on disk under
// <base>/project_<id>/task_<id>/. Stored names get a random prefix so two
// uploads of "report.pdf" never collide.
type FileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{basePath: basePath}, nil
}

func (fs *FileStorage) SaveFile(fileHeader *multipart.FileHeader, projectID, taskID uint) (string, error) {
	dir := filepath.Join(fs.basePath, fmt.Sprintf("project_%d", projectID), fmt.Sprintf("task_%d", taskID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", uuid.NewString()[:8], sanitizeFilename(fileHeader.Filename))
	fullPath := filepath.Join(dir, filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relativePath := filepath.Join(fmt.Sprintf("project_%d", projectID), fmt.Sprintf("task_%d", taskID), filename)
	return relativePath, nil
}

// GetFile opens a stored attachment. Paths are confined to the base
// directory; anything that escapes it is rejected.
func (fs *FileStorage) GetFile(path string) (*os.File, error) {
	fullPath, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

func (fs *FileStorage) DeleteFile(path string) error {
	fullPath, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}

func (fs *FileStorage) resolve(path string) (string, error) {
	fullPath := filepath.Join(fs.basePath, path)
	rel, err := filepath.Rel(fs.basePath, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid attachment path: %s", path)
	}
	return fullPath, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
