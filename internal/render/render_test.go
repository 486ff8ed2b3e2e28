package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/screens"
	"alfredoptarigan/hr-console/internal/view"
)

func renderPage(t *testing.T, name string, page Page) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, page))
	return buf.String()
}

func TestRenderer_EveryPageParses(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, r.pages, name)
	}

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", Page{}))
}

func TestRender_DashboardStates(t *testing.T) {
	loading := renderPage(t, PageResumeDashboard, Page{
		Title:   "Resume Dashboard",
		Loading: true,
		Data:    view.Snapshot[models.ResumeScoreRecord]{State: view.StateLoading},
	})
	assert.Contains(t, loading, "Loading resume scores")
	assert.Contains(t, loading, `http-equiv="refresh"`)

	empty := renderPage(t, PageResumeDashboard, Page{
		Title: "Resume Dashboard",
		Data:  view.Snapshot[models.ResumeScoreRecord]{State: view.StateEmpty},
	})
	assert.Contains(t, empty, "No resume scores found.")
	assert.NotContains(t, empty, "Loading")
	assert.NotContains(t, empty, "<table>")
	assert.NotContains(t, empty, `http-equiv="refresh"`)

	failed := renderPage(t, PageResumeDashboard, Page{
		Title: "Resume Dashboard",
		Data: view.Snapshot[models.ResumeScoreRecord]{
			State: view.StateFailed,
			Err:   apperrors.NewTransportError(assert.AnError),
		},
	})
	assert.Contains(t, failed, "Could not reach the backend. Please try again.")
	assert.NotContains(t, failed, "No resume scores found.")

	populated := renderPage(t, PageResumeDashboard, Page{
		Title: "Resume Dashboard",
		Data: view.Snapshot[models.ResumeScoreRecord]{
			State: view.StatePopulated,
			Items: []models.ResumeScoreRecord{{Filename: models.StringPtr("cv.pdf"), ATSScore: "7"}},
		},
	})
	assert.Contains(t, populated, "cv.pdf")
	assert.Contains(t, populated, "<td>7</td>")
	assert.Contains(t, populated, "<td>-</td>")
}

func TestRender_AssessmentDashboardTotals(t *testing.T) {
	out := renderPage(t, PageAssessmentDashboard, Page{
		Title: "Assessment Dashboard",
		Data: view.Snapshot[models.AssessmentSubmission]{
			State: view.StatePopulated,
			Items: []models.AssessmentSubmission{{
				CandidateName:     models.StringPtr("Ada"),
				GrandScorePercent: "66.7",
				Feedback: []models.FeedbackEntry{
					{QuestionNumber: "1", Score: "5"},
					{QuestionNumber: "2", Score: "7"},
					{QuestionNumber: "3", Score: "8"},
				},
			}},
		},
	})
	assert.Contains(t, out, "20/30 (66.7%)")
	assert.Contains(t, out, "Ada")
}

func TestRender_ResumeUploadPreview(t *testing.T) {
	title := "Backend Engineer"
	desc := "Design and run Go services."
	out := renderPage(t, PageResumeUpload, Page{
		Title: "Score Resume",
		Data: screens.ResumeScoringState{
			JDs: view.Snapshot[models.JobDescription]{
				State: view.StatePopulated,
				Items: []models.JobDescription{{ID: "1", JobTitle: &title}},
			},
			Selected: "1",
			Preview: view.LatestSnapshot[*models.JobDescription]{
				Key:      "1",
				HasValue: true,
				Value:    &models.JobDescription{ID: "1", JobTitle: &title, Description: &desc},
			},
		},
	})
	assert.Contains(t, out, `<option value="1" selected>Backend Engineer</option>`)
	assert.Contains(t, out, desc)
}

func TestRender_ResumeUploadScoresSelectedJD(t *testing.T) {
	backend := "Backend Engineer"
	data := "Data Analyst"
	out := renderPage(t, PageResumeUpload, Page{
		Title: "Score Resume",
		Data: screens.ResumeScoringState{
			JDs: view.Snapshot[models.JobDescription]{
				State: view.StatePopulated,
				Items: []models.JobDescription{{ID: "1", JobTitle: &backend}, {ID: "2", JobTitle: &data}},
			},
			Selected: "1",
		},
	})

	form := strings.Index(out, `<form method="post" action="/resume-upload"`)
	sel := strings.Index(out, `<select id="jd_id" name="jd_id">`)
	end := strings.Index(out, "</form>")
	require.NotEqual(t, -1, form)
	assert.Less(t, form, sel)
	assert.Less(t, sel, end)
	assert.Equal(t, 1, strings.Count(out, `name="jd_id"`))
	assert.Equal(t, 1, strings.Count(out, "<form"))
	assert.Contains(t, out, `formaction="/resume-upload/preview" formmethod="get"`)
	assert.Contains(t, out, `<option value="2">Data Analyst</option>`)
}

func TestRender_JDUploadResult(t *testing.T) {
	out := renderPage(t, PageJDUpload, Page{
		Title: "Upload JD",
		Data: view.ActionSnapshot[*models.JDUploadResult]{
			HasResult: true,
			Result:    &models.JDUploadResult{JobTitle: models.StringPtr("Data Analyst")},
		},
	})
	assert.Contains(t, out, "JD uploaded: Data Analyst")

	missing := renderPage(t, PageJDUpload, Page{
		Title: "Upload JD",
		Data: view.ActionSnapshot[*models.JDUploadResult]{
			Err: apperrors.MissingInput("file", "Please select a JD file first."),
		},
	})
	assert.Contains(t, missing, "Please select a JD file first.")
	assert.Contains(t, missing, `class="validation-error"`)
}

func TestRender_AssessmentPhases(t *testing.T) {
	answering := renderPage(t, PageAssessment, Page{
		Title: "Assessment",
		Data: screens.WizardState{
			Phase:     screens.PhaseAnswering,
			Questions: []string{"Why Go?", "Why now?"},
			Answers:   []string{"", ""},
			CanNext:   true,
		},
	})
	assert.Contains(t, answering, "Question 1 of 2")
	assert.Contains(t, answering, "Why Go?")
	assert.Contains(t, answering, "/interview-form/answer")
	assert.NotContains(t, answering, "Submit Assessment")

	last := renderPage(t, PageAssessment, Page{
		Title: "Assessment",
		Data: screens.WizardState{
			Phase:     screens.PhaseAnswering,
			Questions: []string{"Why Go?", "Why now?"},
			Answers:   []string{"a", ""},
			Index:     1,
			CanSubmit: true,
		},
	})
	assert.Contains(t, last, "/interview-form/submit")
	assert.NotContains(t, last, ">Next<")

	submitted := renderPage(t, PageAssessment, Page{
		Title: "Assessment",
		Data: screens.WizardState{
			Phase: screens.PhaseSubmitted,
			Ack: &models.SubmissionAck{
				GrandScorePercent: "50",
				Feedback:          []models.FeedbackEntry{{QuestionNumber: "1", Score: "5"}},
			},
		},
	})
	assert.Contains(t, submitted, "5/10 (50%)")
}
