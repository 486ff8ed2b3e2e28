package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/screens"
)

// ResultHandler serves the read-only result screens: both dashboards and the
// recommendation lookup.
type ResultHandler struct {
	screenHandler
}

func NewResultHandler(
	registry *screens.Registry,
	renderer *render.Renderer,
	grace time.Duration,
	log logger.Logger,
) *ResultHandler {
	return &ResultHandler{screenHandler{
		registry: registry,
		renderer: renderer,
		grace:    grace,
		log:      log,
	}}
}

// HandleResumeDashboard handles GET /resume-dashboard
func (h *ResultHandler) HandleResumeDashboard(c *fiber.Ctx) error {
	screen, err := screens.Visit[*screens.ResumeDashboard](h.session(c), screens.RouteResumeDashboard)
	if err != nil {
		return err
	}
	h.await(c, screen)

	snap := screen.Snapshot()
	return h.render(c, fiber.StatusOK, render.PageResumeDashboard, render.Page{
		Title:   "Resume Scores",
		Loading: snap.Loading(),
		Data:    snap,
	})
}

// HandleAssessmentDashboard handles GET /assessment-dashboard
func (h *ResultHandler) HandleAssessmentDashboard(c *fiber.Ctx) error {
	screen, err := screens.Visit[*screens.AssessmentDashboard](h.session(c), screens.RouteAssessmentDashboard)
	if err != nil {
		return err
	}
	h.await(c, screen)

	snap := screen.Snapshot()
	return h.render(c, fiber.StatusOK, render.PageAssessmentDashboard, render.Page{
		Title:   "Assessment Submissions",
		Loading: snap.Loading(),
		Data:    snap,
	})
}

// HandleRecommendationsPage handles GET /recommendations
func (h *ResultHandler) HandleRecommendationsPage(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.RecommendationsScreen](h.session(c), screens.RouteRecommendations)
	if err != nil {
		return err
	}
	return h.renderRecommendations(c, fiber.StatusOK, screen)
}

// HandleRecommendations handles POST /recommendations
func (h *ResultHandler) HandleRecommendations(c *fiber.Ctx) error {
	screen, err := screens.Enter[*screens.RecommendationsScreen](h.session(c), screens.RouteRecommendations)
	if err != nil {
		return err
	}

	_, err = screen.Lookup(c.UserContext(), formValue(c, "job_title"))
	return h.renderRecommendations(c, statusFor(err), screen)
}

func (h *ResultHandler) renderRecommendations(c *fiber.Ctx, status int, screen *screens.RecommendationsScreen) error {
	snap := screen.Snapshot()
	return h.render(c, status, render.PageRecommendations, render.Page{
		Title:   "Candidate Recommendations",
		Loading: snap.Lookup.InFlight,
		Data:    snap,
	})
}
