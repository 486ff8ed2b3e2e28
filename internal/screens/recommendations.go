package screens

import (
	"context"
	"strings"
	"sync"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/view"
)

type RecommendationsState struct {
	JobTitle string
	Lookup   view.ActionSnapshot[[]models.RecommendationEntry]
}

// RecommendationsScreen ranks stored candidates for a job title.
type RecommendationsScreen struct {
	lookup *view.Action[string, []models.RecommendationEntry]

	mu       sync.Mutex
	jobTitle string
}

func NewRecommendationsScreen(d Deps) *RecommendationsScreen {
	validate := func(jobTitle string) error {
		if strings.TrimSpace(jobTitle) == "" {
			return apperrors.MissingInput("job_title", "Please enter a job title.")
		}
		return nil
	}

	perform := func(ctx context.Context, jobTitle string) ([]models.RecommendationEntry, error) {
		return d.Client.Recommendations(ctx, strings.TrimSpace(jobTitle))
	}

	return &RecommendationsScreen{
		lookup: view.NewAction("recommendations", validate, perform, d.Log),
	}
}

func (s *RecommendationsScreen) Mount(context.Context) {}

func (s *RecommendationsScreen) Unmount() {
	s.lookup.Unmount()
}

func (s *RecommendationsScreen) Lookup(ctx context.Context, jobTitle string) ([]models.RecommendationEntry, error) {
	s.mu.Lock()
	s.jobTitle = jobTitle
	s.mu.Unlock()

	return s.lookup.Submit(ctx, jobTitle)
}

func (s *RecommendationsScreen) Snapshot() RecommendationsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return RecommendationsState{
		JobTitle: s.jobTitle,
		Lookup:   s.lookup.Snapshot(),
	}
}
