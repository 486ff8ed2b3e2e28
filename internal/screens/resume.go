package screens

import (
	"context"
	"strings"
	"sync"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/services"
	"alfredoptarigan/hr-console/internal/view"
)

// ResumeSubmission pairs a resume with the id of the job description it is
// scored against. The id is sent exactly as selected.
type ResumeSubmission struct {
	File *FileInput
	JDID string
}

// ResumeScoringState is what the resume screen renders.
type ResumeScoringState struct {
	JDs      view.Snapshot[models.JobDescription]
	Selected string
	Preview  view.LatestSnapshot[*models.JobDescription]
	Score    view.ActionSnapshot[*models.ResumeScoreResult]
}

// ResumeScoringScreen loads the JD list on mount, previews the selected JD
// and scores an uploaded resume against it.
type ResumeScoringScreen struct {
	jds     *view.Resource[models.JobDescription]
	preview *view.Latest[*models.JobDescription]
	score   *view.Action[ResumeSubmission, *models.ResumeScoreResult]

	mu       sync.Mutex
	selected string
}

func NewResumeScoringScreen(d Deps) *ResumeScoringScreen {
	validate := func(in ResumeSubmission) error {
		if in.File.missing() {
			return apperrors.MissingInput("file", "Please upload a resume.")
		}
		if strings.TrimSpace(in.JDID) == "" {
			return apperrors.MissingInput("jd_id", "Please select a Job Description.")
		}
		return nil
	}

	perform := func(ctx context.Context, in ResumeSubmission) (*models.ResumeScoreResult, error) {
		upload, err := d.stage(in.File, "resume", services.ResumePolicy)
		if err != nil {
			return nil, err
		}
		defer d.release(upload)

		return d.Client.ScoreResume(ctx, upload, in.JDID)
	}

	return &ResumeScoringScreen{
		jds:     view.NewResource("jd-list", d.Client.ListJDs, d.Log),
		preview: view.NewLatest("jd-preview", d.Client.GetJD, d.Log),
		score:   view.NewAction("resume-score", validate, perform, d.Log),
	}
}

func (s *ResumeScoringScreen) Mount(ctx context.Context) {
	s.jds.Mount(ctx)
}

func (s *ResumeScoringScreen) Unmount() {
	s.jds.Unmount()
	s.preview.Unmount()
	s.score.Unmount()
}

func (s *ResumeScoringScreen) Done() <-chan struct{} {
	return s.jds.Done()
}

// Select records the chosen JD and fetches its preview. Only the most recent
// selection may update the preview.
func (s *ResumeScoringScreen) Select(ctx context.Context, jdID string) (*models.JobDescription, error) {
	s.mu.Lock()
	s.selected = jdID
	s.mu.Unlock()

	return s.preview.Load(ctx, jdID)
}

// Score submits the resume. An empty JDID falls back to the current
// selection; the preview text is never part of the request.
func (s *ResumeScoringScreen) Score(ctx context.Context, in ResumeSubmission) (*models.ResumeScoreResult, error) {
	s.mu.Lock()
	if in.JDID == "" {
		in.JDID = s.selected
	} else {
		s.selected = in.JDID
	}
	s.mu.Unlock()

	return s.score.Submit(ctx, in)
}

func (s *ResumeScoringScreen) Snapshot() ResumeScoringState {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()

	return ResumeScoringState{
		JDs:      s.jds.Snapshot(),
		Selected: selected,
		Preview:  s.preview.Snapshot(),
		Score:    s.score.Snapshot(),
	}
}
