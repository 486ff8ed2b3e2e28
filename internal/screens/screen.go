// Package screens implements the console's screens. Each screen is a state
// container owned by one browser session; it is mounted when the session
// navigates to its route and unmounted when the session leaves it.
package screens

import (
	"context"
	"io"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/services"
)

const (
	RouteHome                = "/"
	RouteJDUpload            = "/jd-upload"
	RouteResumeUpload        = "/resume-upload"
	RouteResumeDashboard     = "/resume-dashboard"
	RouteRecommendations     = "/recommendations"
	RouteInterviewUpload     = "/interview"
	RouteAssessment          = "/interview-form"
	RouteAssessmentDashboard = "/assessment-dashboard"
)

// Screen is the lifecycle every screen shares. Mount starts whatever the
// screen loads on entry; Unmount cancels outstanding work and makes late
// responses a no-op.
type Screen interface {
	Mount(ctx context.Context)
	Unmount()
}

// Loader is implemented by screens that fetch data on mount. Done is closed
// once that fetch resolves.
type Loader interface {
	Done() <-chan struct{}
}

type Deps struct {
	Client    services.BackendClient
	Storage   services.StorageService
	Preflight services.PreflightService
	Log       logger.Logger
}

// FileInput is a file chosen by the user. Open is called at most once.
type FileInput struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func (f *FileInput) missing() bool {
	return f == nil || f.Name == "" || f.Open == nil
}

// stage copies the file to local storage and runs the policy's local checks.
// The caller must release the returned upload.
func (d Deps) stage(file *FileInput, kind string, policy services.UploadPolicy) (*models.Upload, error) {
	rc, err := file.Open()
	if err != nil {
		se := apperrors.NewValidationError(apperrors.ErrCodeUnreadableFile, "file", "The selected file could not be read.")
		se.Details = err.Error()
		return nil, se
	}
	defer rc.Close()

	upload, err := d.Storage.Stage(rc, file.Name, kind)
	if err != nil {
		return nil, err
	}

	if err := d.Preflight.Check(upload, policy); err != nil {
		d.release(upload)
		return nil, err
	}

	return upload, nil
}

func (d Deps) release(upload *models.Upload) {
	if err := d.Storage.Discard(upload); err != nil {
		d.Log.Warn("failed to discard staged file", map[string]interface{}{
			"path":  upload.Path,
			"error": err.Error(),
		})
	}
}

// Home has no remote state.
type Home struct{}

func NewHome(Deps) *Home { return &Home{} }

func (h *Home) Mount(context.Context) {}
func (h *Home) Unmount()              {}
