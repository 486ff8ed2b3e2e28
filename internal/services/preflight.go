package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
)

// UploadPolicy describes what a screen accepts before anything is sent.
type UploadPolicy struct {
	Label      string
	Extensions []string
	// MediaPrefixes accepts any file whose sniffed type starts with one of
	// these prefixes, regardless of extension.
	MediaPrefixes    []string
	RequireTextLayer bool
}

var (
	JDPolicy = UploadPolicy{
		Label:      "job description",
		Extensions: []string{".docx", ".doc", ".pdf", ".txt"},
	}

	ResumePolicy = UploadPolicy{
		Label:            "resume",
		Extensions:       []string{".pdf", ".doc", ".docx"},
		RequireTextLayer: true,
	}

	InterviewPolicy = UploadPolicy{
		Label: "interview recording",
		Extensions: []string{
			".mp3", ".wav", ".m4a", ".aac", ".flac", ".ogg", ".oga",
			".mp4", ".mov", ".webm", ".mkv", ".avi",
		},
		MediaPrefixes: []string{"audio/", "video/"},
	}
)

// PreflightService inspects a staged upload locally. Every failure it reports
// is a validation error; nothing here talks to the backend.
type PreflightService interface {
	Check(upload *models.Upload, policy UploadPolicy) error
	ExtractText(filePath string) (string, error)
}

type preflightService struct{}

func NewPreflightService() PreflightService {
	return &preflightService{}
}

// Check fills in upload.ContentType from the sniffed content.
func (p *preflightService) Check(upload *models.Upload, policy UploadPolicy) error {
	if upload == nil {
		return apperrors.MissingInput("file", fmt.Sprintf("Please select a %s file first.", policy.Label))
	}

	mtype, err := mimetype.DetectFile(upload.Path)
	if err != nil {
		return fmt.Errorf("failed to inspect staged file: %w", err)
	}
	upload.ContentType = mtype.String()

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !acceptsMedia(mtype, policy.MediaPrefixes) && !contains(policy.Extensions, ext) {
		return apperrors.NewValidationError(
			apperrors.ErrCodeUnsupportedFile,
			"file",
			fmt.Sprintf("Unsupported %s file type. Allowed: %s", policy.Label, strings.Join(policy.Extensions, ", ")),
		)
	}

	if ext == ".pdf" {
		if !mtype.Is("application/pdf") {
			return apperrors.NewValidationError(
				apperrors.ErrCodeUnsupportedFile,
				"file",
				fmt.Sprintf("The selected %s is not a valid PDF.", policy.Label),
			)
		}
		if policy.RequireTextLayer {
			if _, err := p.ExtractText(upload.Path); err != nil {
				se := apperrors.NewValidationError(
					apperrors.ErrCodeUnreadableFile,
					"file",
					fmt.Sprintf("No text could be extracted from the %s. Scanned PDFs are not supported.", policy.Label),
				)
				se.Details = err.Error()
				return se
			}
		}
	}

	return nil
}

func (p *preflightService) ExtractText(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	text = CleanText(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func acceptsMedia(mtype *mimetype.MIME, prefixes []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, prefix := range prefixes {
			if strings.HasPrefix(m.String(), prefix) {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
