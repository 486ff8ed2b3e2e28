package screens

import (
	"context"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/services"
	"alfredoptarigan/hr-console/internal/view"
)

// JDUploadScreen forwards one job description document to the backend and
// shows the extracted title.
type JDUploadScreen struct {
	upload *view.Action[*FileInput, *models.JDUploadResult]
}

func NewJDUploadScreen(d Deps) *JDUploadScreen {
	validate := func(file *FileInput) error {
		if file.missing() {
			return apperrors.MissingInput("file", "Please select a JD file first.")
		}
		return nil
	}

	perform := func(ctx context.Context, file *FileInput) (*models.JDUploadResult, error) {
		upload, err := d.stage(file, "jd", services.JDPolicy)
		if err != nil {
			return nil, err
		}
		defer d.release(upload)

		return d.Client.UploadJD(ctx, upload)
	}

	return &JDUploadScreen{
		upload: view.NewAction("jd-upload", validate, perform, d.Log),
	}
}

func (s *JDUploadScreen) Mount(context.Context) {}

func (s *JDUploadScreen) Unmount() {
	s.upload.Unmount()
}

func (s *JDUploadScreen) Upload(ctx context.Context, file *FileInput) (*models.JDUploadResult, error) {
	return s.upload.Submit(ctx, file)
}

func (s *JDUploadScreen) Snapshot() view.ActionSnapshot[*models.JDUploadResult] {
	return s.upload.Snapshot()
}

// InterviewUploadScreen sends an interview recording for transcription and
// tone analysis.
type InterviewUploadScreen struct {
	transcribe *view.Action[*FileInput, *models.TranscriptResult]
}

func NewInterviewUploadScreen(d Deps) *InterviewUploadScreen {
	validate := func(file *FileInput) error {
		if file.missing() {
			return apperrors.MissingInput("file", "Please select an audio or video file first.")
		}
		return nil
	}

	perform := func(ctx context.Context, file *FileInput) (*models.TranscriptResult, error) {
		upload, err := d.stage(file, "interview", services.InterviewPolicy)
		if err != nil {
			return nil, err
		}
		defer d.release(upload)

		return d.Client.Transcribe(ctx, upload)
	}

	return &InterviewUploadScreen{
		transcribe: view.NewAction("interview-upload", validate, perform, d.Log),
	}
}

func (s *InterviewUploadScreen) Mount(context.Context) {}

func (s *InterviewUploadScreen) Unmount() {
	s.transcribe.Unmount()
}

func (s *InterviewUploadScreen) Transcribe(ctx context.Context, file *FileInput) (*models.TranscriptResult, error) {
	return s.transcribe.Submit(ctx, file)
}

func (s *InterviewUploadScreen) Snapshot() view.ActionSnapshot[*models.TranscriptResult] {
	return s.transcribe.Snapshot()
}
