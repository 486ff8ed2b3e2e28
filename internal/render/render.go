package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"alfredoptarigan/hr-console/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageHome                = "home"
	PageJDUpload            = "jd_upload"
	PageResumeUpload        = "resume_upload"
	PageResumeDashboard     = "resume_dashboard"
	PageRecommendations     = "recommendations"
	PageInterview           = "interview"
	PageAssessment          = "assessment"
	PageAssessmentDashboard = "assessment_dashboard"
)

var pageNames = []string{
	PageHome,
	PageJDUpload,
	PageResumeUpload,
	PageResumeDashboard,
	PageRecommendations,
	PageInterview,
	PageAssessment,
	PageAssessmentDashboard,
}

// Page is the data every template receives. Data holds the screen snapshot.
type Page struct {
	Title string
	// Loading makes the page reload itself until the outstanding request
	// resolves.
	Loading bool
	Data    interface{}
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"text":         Text,
		"scalar":       Scalar,
		"timestamp":    Timestamp,
		"truncate":     Truncate,
		"jdLabel":      JDLabel,
		"grandSummary": grandSummary,
		"errorMessage": errorMessage,
		"scores": func(s *models.ResumeScores) models.ResumeScores {
			if s == nil {
				return models.ResumeScores{}
			}
			return *s
		},
		"tone": func(t *models.EmotionTone) models.EmotionTone {
			if t == nil {
				return models.EmotionTone{}
			}
			return *t
		},
		"inc": func(i int) int { return i + 1 },
	}
}
