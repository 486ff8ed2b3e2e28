package screens

import (
	"context"

	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/view"
)

// ResumeDashboard lists every stored resume score.
type ResumeDashboard struct {
	scores *view.Resource[models.ResumeScoreRecord]
}

func NewResumeDashboard(d Deps) *ResumeDashboard {
	return &ResumeDashboard{
		scores: view.NewResource("resume-scores", d.Client.ListResumeScores, d.Log),
	}
}

func (s *ResumeDashboard) Mount(ctx context.Context) { s.scores.Mount(ctx) }
func (s *ResumeDashboard) Unmount()                  { s.scores.Unmount() }
func (s *ResumeDashboard) Done() <-chan struct{}     { return s.scores.Done() }

func (s *ResumeDashboard) Snapshot() view.Snapshot[models.ResumeScoreRecord] {
	return s.scores.Snapshot()
}

// AssessmentDashboard lists every assessment submission with its feedback.
type AssessmentDashboard struct {
	submissions *view.Resource[models.AssessmentSubmission]
}

func NewAssessmentDashboard(d Deps) *AssessmentDashboard {
	return &AssessmentDashboard{
		submissions: view.NewResource("assessment-submissions", d.Client.ListSubmissions, d.Log),
	}
}

func (s *AssessmentDashboard) Mount(ctx context.Context) { s.submissions.Mount(ctx) }
func (s *AssessmentDashboard) Unmount()                  { s.submissions.Unmount() }
func (s *AssessmentDashboard) Done() <-chan struct{}     { return s.submissions.Done() }

func (s *AssessmentDashboard) Snapshot() view.Snapshot[models.AssessmentSubmission] {
	return s.submissions.Snapshot()
}
