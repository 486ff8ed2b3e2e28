package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/screens"
)

// UploadHandler serves the three submit-and-display upload screens.
type UploadHandler struct {
	screenHandler
}

func NewUploadHandler(
	registry *screens.Registry,
	renderer *render.Renderer,
	grace time.Duration,
	log logger.Logger,
) *UploadHandler {
	return &UploadHandler{screenHandler{
		registry: registry,
		renderer: renderer,
		grace:    grace,
		log:      log,
	}}
}

// HandleJDPage handles GET /jd-upload
func (h *UploadHandler) HandleJDPage(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.JDUploadScreen](h.session(c), screens.RouteJDUpload)
	if err != nil {
		return err
	}
	return h.renderJD(c, fiber.StatusOK, screen)
}

// HandleJDUpload handles POST /jd-upload
func (h *UploadHandler) HandleJDUpload(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.JDUploadScreen](h.session(c), screens.RouteJDUpload)
	if err != nil {
		return err
	}

	_, err = screen.Upload(c.UserContext(), formFile(c, "file"))
	return h.renderJD(c, statusFor(err), screen)
}

func (h *UploadHandler) renderJD(c *fiber.Ctx, status int, screen *screens.JDUploadScreen) error {
	snap := screen.Snapshot()
	return h.render(c, status, render.PageJDUpload, render.Page{
		Title:   "Upload Job Description",
		Loading: snap.InFlight,
		Data:    snap,
	})
}

// HandleResumePage handles GET /resume-upload
func (h *UploadHandler) HandleResumePage(c *fiber.Ctx) error {
	screen, err := screens.Visit[*screens.ResumeScoringScreen](h.session(c), screens.RouteResumeUpload)
	if err != nil {
		return err
	}
	h.await(c, screen)
	return h.renderResume(c, fiber.StatusOK, screen)
}

// HandleResumePreview handles GET /resume-upload/preview?jd_id=
func (h *UploadHandler) HandleResumePreview(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.ResumeScoringScreen](h.session(c), screens.RouteResumeUpload)
	if err != nil {
		return err
	}
	h.await(c, screen)

	_, err = screen.Select(c.UserContext(), query(c, "jd_id"))
	return h.renderResume(c, statusFor(err), screen)
}

// HandleResumeScore handles POST /resume-upload
func (h *UploadHandler) HandleResumeScore(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.ResumeScoringScreen](h.session(c), screens.RouteResumeUpload)
	if err != nil {
		return err
	}

	_, err = screen.Score(c.UserContext(), screens.ResumeSubmission{
		File: formFile(c, "file"),
		JDID: formValue(c, "jd_id"),
	})
	return h.renderResume(c, statusFor(err), screen)
}

func (h *UploadHandler) renderResume(c *fiber.Ctx, status int, screen *screens.ResumeScoringScreen) error {
	snap := screen.Snapshot()
	return h.render(c, status, render.PageResumeUpload, render.Page{
		Title:   "Score Resume",
		Loading: snap.JDs.Loading() || snap.Preview.Loading || snap.Score.InFlight,
		Data:    snap,
	})
}

// HandleInterviewPage handles GET /interview
func (h *UploadHandler) HandleInterviewPage(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.InterviewUploadScreen](h.session(c), screens.RouteInterviewUpload)
	if err != nil {
		return err
	}
	return h.renderInterview(c, fiber.StatusOK, screen)
}

// HandleInterviewUpload handles POST /interview
func (h *UploadHandler) HandleInterviewUpload(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.InterviewUploadScreen](h.session(c), screens.RouteInterviewUpload)
	if err != nil {
		return err
	}

	_, err = screen.Transcribe(c.UserContext(), formFile(c, "file"))
	return h.renderInterview(c, statusFor(err), screen)
}

func (h *UploadHandler) renderInterview(c *fiber.Ctx, status int, screen *screens.InterviewUploadScreen) error {
	snap := screen.Snapshot()
	return h.render(c, status, render.PageInterview, render.Page{
		Title:   "Interview Transcription",
		Loading: snap.InFlight,
		Data:    snap,
	})
}
