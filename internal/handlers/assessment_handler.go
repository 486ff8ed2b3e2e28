package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/screens"
)

// AssessmentHandler drives the assessment wizard and the home screen that
// the invite email links to.
type AssessmentHandler struct {
	screenHandler
}

func NewAssessmentHandler(
	registry *screens.Registry,
	renderer *render.Renderer,
	log logger.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{screenHandler{
		registry: registry,
		renderer: renderer,
		log:      log,
	}}
}

// HandleHome handles GET /. The backend's invite email links to
// /?start=assessment, which goes straight to the wizard.
func (h *AssessmentHandler) HandleHome(c *fiber.Ctx) error {
	if query(c, "start") == "assessment" {
		return c.Redirect(screens.RouteAssessment, fiber.StatusSeeOther)
	}

	if _, err := screens.Enter[*screens.Home](h.session(c), screens.RouteHome); err != nil {
		return err
	}
	return h.render(c, fiber.StatusOK, render.PageHome, render.Page{Title: "HR Recruitment Console"})
}

// HandleWizard handles GET /interview-form
func (h *AssessmentHandler) HandleWizard(c *fiber.Ctx) error {
	wizard, err := screens.Enter[*screens.AssessmentWizard](h.session(c), screens.RouteAssessment)
	if err != nil {
		return err
	}
	return h.renderWizard(c, fiber.StatusOK, wizard)
}

// HandleStart handles POST /interview-form/start
func (h *AssessmentHandler) HandleStart(c *fiber.Ctx) error {
	wizard, err := screens.Enter[*screens.AssessmentWizard](h.session(c), screens.RouteAssessment)
	if err != nil {
		return err
	}

	err = wizard.Start(c.UserContext(), screens.Profile{
		CandidateName: formValue(c, "candidate_name"),
		Email:         formValue(c, "email"),
		PhoneNumber:   formValue(c, "phone_number"),
		JobTitle:      formValue(c, "job_title"),
	})
	return h.renderWizard(c, statusFor(err), wizard)
}

// HandleAnswer handles POST /interview-form/answer. It stores the answer and
// moves to the next question.
func (h *AssessmentHandler) HandleAnswer(c *fiber.Ctx) error {
	wizard, err := screens.Enter[*screens.AssessmentWizard](h.session(c), screens.RouteAssessment)
	if err != nil {
		return err
	}

	err = wizard.SetAnswer(formValue(c, "answer"))
	if err == nil {
		err = wizard.Next()
	}
	return h.renderWizard(c, statusFor(err), wizard)
}

// HandleSubmit handles POST /interview-form/submit
func (h *AssessmentHandler) HandleSubmit(c *fiber.Ctx) error {
	wizard, err := screens.Enter[*screens.AssessmentWizard](h.session(c), screens.RouteAssessment)
	if err != nil {
		return err
	}

	err = wizard.SetAnswer(formValue(c, "answer"))
	if err == nil {
		_, err = wizard.Submit(c.UserContext())
	}
	return h.renderWizard(c, statusFor(err), wizard)
}

func (h *AssessmentHandler) renderWizard(c *fiber.Ctx, status int, wizard *screens.AssessmentWizard) error {
	snap := wizard.Snapshot()
	return h.render(c, status, render.PageAssessment, render.Page{
		Title:   "Interview Assessment",
		Loading: snap.Phase == screens.PhaseLoading || snap.Phase == screens.PhaseSubmitting,
		Data:    snap,
	})
}
