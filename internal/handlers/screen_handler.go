package handlers

import (
	"bytes"
	stderrors "errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/screens"
	"alfredoptarigan/hr-console/internal/view"
)

const SessionCookie = "hr_session"

// screenHandler holds what every page handler needs: the session registry,
// the renderer and how long a page waits for a fresh fetch before showing
// the loading state.
type screenHandler struct {
	registry *screens.Registry
	renderer *render.Renderer
	grace    time.Duration
	log      logger.Logger
}

func (h *screenHandler) session(c *fiber.Ctx) *screens.Session {
	id := utils.CopyString(c.Cookies(SessionCookie))
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		h.log.WithSession(id).Debug("session started", map[string]interface{}{"path": c.Path()})
	}
	return h.registry.Session(id)
}

// await gives a freshly mounted screen a short window to resolve so that
// fast backends never flash the loading state.
func (h *screenHandler) await(c *fiber.Ctx, l screens.Loader) {
	if h.grace <= 0 {
		return
	}
	timer := time.NewTimer(h.grace)
	defer timer.Stop()

	select {
	case <-l.Done():
	case <-timer.C:
	case <-c.UserContext().Done():
	}
}

func (h *screenHandler) render(c *fiber.Ctx, status int, name string, page render.Page) error {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, page); err != nil {
		h.log.Error("failed to render page", map[string]interface{}{
			"page":  name,
			"error": err.Error(),
		})
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// statusFor maps an operation's outcome to the page's HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case stderrors.Is(err, apperrors.ErrInFlight),
		stderrors.Is(err, view.ErrUnmounted),
		stderrors.Is(err, view.ErrSuperseded):
		return fiber.StatusConflict
	case apperrors.IsValidation(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadGateway
	}
}

func formFile(c *fiber.Ctx, field string) *screens.FileInput {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil
	}
	return &screens.FileInput{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formValue and query copy out of fasthttp's buffers, which are reused once
// the handler returns. Screens keep these values across requests.
func formValue(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.FormValue(key))
}

func query(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Query(key))
}
