package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
)

// StorageService stages incoming uploads on local disk until they have been
// checked and forwarded to the backend.
type StorageService interface {
	Stage(src io.Reader, originalName string, kind string) (*models.Upload, error)
	Discard(upload *models.Upload) error
	EnsureUploadDir() error
	MaxFileSize() int64
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) MaxFileSize() int64 {
	return s.maxFileSize
}

// Stage copies src to a uniquely named file. Files over the size limit are
// removed and reported as a validation error.
func (s *storageService) Stage(src io.Reader, originalName string, kind string) (*models.Upload, error) {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || strings.TrimSpace(base) == "" {
		return nil, apperrors.MissingInput("file", "Please select a file first.")
	}

	ext := strings.ToLower(filepath.Ext(base))
	uniqueFilename := fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxFileSize+1))
	closeErr := dst.Close()
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}
	if closeErr != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to stage file: %w", closeErr)
	}

	if written > s.maxFileSize {
		os.Remove(filePath)
		return nil, apperrors.NewValidationError(
			apperrors.ErrCodeFileTooLarge,
			"file",
			fmt.Sprintf("File too large. Max size: %d bytes", s.maxFileSize),
		)
	}
	if written == 0 {
		os.Remove(filePath)
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "file", "The selected file is empty.")
	}

	return &models.Upload{
		Filename: base,
		Size:     written,
		Path:     filePath,
	}, nil
}

func (s *storageService) Discard(upload *models.Upload) error {
	if upload == nil || upload.Path == "" {
		return nil
	}
	if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete staged file: %w", err)
	}
	return nil
}
