package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"alfredoptarigan/hr-console/internal/screens"
)

type Handlers struct {
	Upload     *UploadHandler
	Result     *ResultHandler
	Assessment *AssessmentHandler
	Registry   *screens.Registry
	Metrics    http.Handler
}

func Register(app *fiber.App, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"sessions": h.Registry.Count(),
		})
	})
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	app.Get(screens.RouteHome, h.Assessment.HandleHome)

	app.Get(screens.RouteJDUpload, h.Upload.HandleJDPage)
	app.Post(screens.RouteJDUpload, h.Upload.HandleJDUpload)
	app.Get(screens.RouteResumeUpload, h.Upload.HandleResumePage)
	app.Get(screens.RouteResumeUpload+"/preview", h.Upload.HandleResumePreview)
	app.Post(screens.RouteResumeUpload, h.Upload.HandleResumeScore)
	app.Get(screens.RouteInterviewUpload, h.Upload.HandleInterviewPage)
	app.Post(screens.RouteInterviewUpload, h.Upload.HandleInterviewUpload)

	app.Get(screens.RouteResumeDashboard, h.Result.HandleResumeDashboard)
	app.Get(screens.RouteAssessmentDashboard, h.Result.HandleAssessmentDashboard)
	app.Get(screens.RouteRecommendations, h.Result.HandleRecommendationsPage)
	app.Post(screens.RouteRecommendations, h.Result.HandleRecommendations)

	app.Get(screens.RouteAssessment, h.Assessment.HandleWizard)
	app.Post(screens.RouteAssessment+"/start", h.Assessment.HandleStart)
	app.Post(screens.RouteAssessment+"/answer", h.Assessment.HandleAnswer)
	app.Post(screens.RouteAssessment+"/submit", h.Assessment.HandleSubmit)
}
