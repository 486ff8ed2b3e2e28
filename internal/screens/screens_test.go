package screens

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/services"
)

// fakeClient records calls and answers from its function fields. Methods
// without a field panic through the embedded nil interface.
type fakeClient struct {
	services.BackendClient

	mu       sync.Mutex
	calls    []string
	uploads  []string
	staged   []string
	jdIDs    []string
	titles   []string
	payloads []models.AssessmentAnswers

	uploadJD   func() (*models.JDUploadResult, error)
	transcribe func() (*models.TranscriptResult, error)
	score      func() (*models.ResumeScoreResult, error)
	recommend  func() ([]models.RecommendationEntry, error)
	questions  func(ctx context.Context) ([]string, error)
	submit     func(ctx context.Context) (*models.SubmissionAck, error)
}

func (f *fakeClient) record(call string, upload *models.Upload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if upload != nil {
		f.uploads = append(f.uploads, upload.Filename)
		f.staged = append(f.staged, upload.Path)
	}
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) UploadJD(_ context.Context, file *models.Upload) (*models.JDUploadResult, error) {
	f.record("UploadJD", file)
	return f.uploadJD()
}

func (f *fakeClient) Transcribe(_ context.Context, file *models.Upload) (*models.TranscriptResult, error) {
	f.record("Transcribe", file)
	return f.transcribe()
}

func (f *fakeClient) ScoreResume(_ context.Context, file *models.Upload, jdID string) (*models.ResumeScoreResult, error) {
	f.record("ScoreResume", file)
	f.mu.Lock()
	f.jdIDs = append(f.jdIDs, jdID)
	f.mu.Unlock()
	return f.score()
}

func (f *fakeClient) Recommendations(_ context.Context, jobTitle string) ([]models.RecommendationEntry, error) {
	f.record("Recommendations", nil)
	f.mu.Lock()
	f.titles = append(f.titles, jobTitle)
	f.mu.Unlock()
	return f.recommend()
}

func (f *fakeClient) AssessmentQuestions(ctx context.Context, jobTitle string) ([]string, error) {
	f.record("AssessmentQuestions", nil)
	f.mu.Lock()
	f.titles = append(f.titles, jobTitle)
	f.mu.Unlock()
	return f.questions(ctx)
}

func (f *fakeClient) SubmitAssessment(ctx context.Context, answers models.AssessmentAnswers) (*models.SubmissionAck, error) {
	f.record("SubmitAssessment", nil)
	f.mu.Lock()
	f.payloads = append(f.payloads, answers)
	f.mu.Unlock()
	return f.submit(ctx)
}

func newDeps(t *testing.T, client services.BackendClient) Deps {
	t.Helper()
	return Deps{
		Client:    client,
		Storage:   services.NewStorageService(t.TempDir(), 1<<20),
		Preflight: services.NewPreflightService(),
		Log:       logger.NewTestLogger(t),
	}
}

func fileInput(name, content string) *FileInput {
	return &FileInput{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestJDUploadScreen(t *testing.T) {
	t.Run("missing file never reaches the backend", func(t *testing.T) {
		client := &fakeClient{}
		screen := NewJDUploadScreen(newDeps(t, client))

		_, err := screen.Upload(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, "Please select a JD file first.", apperrors.UserMessage(err))
		assert.Equal(t, 0, client.callCount())
		assert.Equal(t, apperrors.KindValidation, screen.Snapshot().Err.Kind)
	})

	t.Run("unsupported extension is rejected locally", func(t *testing.T) {
		client := &fakeClient{}
		screen := NewJDUploadScreen(newDeps(t, client))

		_, err := screen.Upload(context.Background(), fileInput("notes.exe", "MZ binary"))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, client.callCount())
	})

	t.Run("upload forwards the file and releases the staged copy", func(t *testing.T) {
		client := &fakeClient{uploadJD: func() (*models.JDUploadResult, error) {
			return &models.JDUploadResult{JobTitle: models.StringPtr("Backend Engineer")}, nil
		}}
		screen := NewJDUploadScreen(newDeps(t, client))

		result, err := screen.Upload(context.Background(), fileInput("backend.txt", "We are hiring a Go engineer."))
		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer", *result.JobTitle)
		assert.Equal(t, []string{"backend.txt"}, client.uploads)

		_, statErr := os.Stat(client.staged[0])
		assert.True(t, os.IsNotExist(statErr))

		snap := screen.Snapshot()
		assert.True(t, snap.HasResult)
		assert.Nil(t, snap.Err)
	})

	t.Run("failure keeps the previous result", func(t *testing.T) {
		fail := false
		client := &fakeClient{uploadJD: func() (*models.JDUploadResult, error) {
			if fail {
				return nil, apperrors.NewStatusError(500, "")
			}
			return &models.JDUploadResult{JobTitle: models.StringPtr("First")}, nil
		}}
		screen := NewJDUploadScreen(newDeps(t, client))

		_, err := screen.Upload(context.Background(), fileInput("a.txt", "one"))
		require.NoError(t, err)
		fail = true
		_, err = screen.Upload(context.Background(), fileInput("b.txt", "two"))
		require.Error(t, err)

		snap := screen.Snapshot()
		assert.Equal(t, "First", *snap.Result.JobTitle)
		assert.Equal(t, apperrors.KindRequest, snap.Err.Kind)
	})
}

func TestInterviewUploadScreen(t *testing.T) {
	client := &fakeClient{transcribe: func() (*models.TranscriptResult, error) {
		return &models.TranscriptResult{Text: models.StringPtr("hello there")}, nil
	}}
	screen := NewInterviewUploadScreen(newDeps(t, client))

	_, err := screen.Transcribe(context.Background(), fileInput("answers.txt", "just text"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, client.callCount())

	result, err := screen.Transcribe(context.Background(), fileInput("answers.mp3", "ID3 not really audio"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", *result.Text)
	assert.Equal(t, []string{"Transcribe"}, client.calls)
}

func TestResumeScoringScreen_Validation(t *testing.T) {
	client := &fakeClient{}

	screen := NewResumeScoringScreen(newDeps(t, client))
	_, err := screen.Score(context.Background(), ResumeSubmission{JDID: "1"})
	require.Error(t, err)
	assert.Equal(t, "Please upload a resume.", apperrors.UserMessage(err))

	screen = NewResumeScoringScreen(newDeps(t, client))
	_, err = screen.Score(context.Background(), ResumeSubmission{File: fileInput("cv.docx", "resume")})
	require.Error(t, err)
	assert.Equal(t, "Please select a Job Description.", apperrors.UserMessage(err))

	assert.Equal(t, 0, client.callCount())
}

func TestRecommendationsScreen(t *testing.T) {
	client := &fakeClient{recommend: func() ([]models.RecommendationEntry, error) {
		return []models.RecommendationEntry{}, nil
	}}
	screen := NewRecommendationsScreen(newDeps(t, client))

	_, err := screen.Lookup(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, "Please enter a job title.", apperrors.UserMessage(err))
	assert.Equal(t, 0, client.callCount())

	entries, err := screen.Lookup(context.Background(), "  Data Scientist ")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, []string{"Data Scientist"}, client.titles)

	snap := screen.Snapshot()
	assert.True(t, snap.Lookup.HasResult)
	assert.Empty(t, snap.Lookup.Result)
	assert.Equal(t, "  Data Scientist ", snap.JobTitle)
}
