package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (BackendClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.URL, 5*time.Second, nil, logger.NewTestLogger(t)), srv
}

func stagedFile(t *testing.T, name, content string) *models.Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &models.Upload{Filename: name, Size: int64(len(content)), Path: path, ContentType: "application/pdf"}
}

func TestBackendClient_ListJDs(t *testing.T) {
	var requestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/jd/list", r.URL.Path)
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[{"id": 1, "job_title": "Backend Engineer"}, {"id": 2}]`))
	})

	jds, err := client.ListJDs(context.Background())
	require.NoError(t, err)
	require.Len(t, jds, 2)
	assert.Equal(t, "1", jds[0].ID.String())
	assert.Equal(t, "Backend Engineer", *jds[0].JobTitle)
	assert.Nil(t, jds[1].JobTitle)
	assert.NotEmpty(t, requestID)
}

func TestBackendClient_GetJD(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jd/7", r.URL.Path)
		w.Write([]byte(`{"description": "Build APIs in Go"}`))
	})

	jd, err := client.GetJD(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, jd.Description)
	assert.Equal(t, "Build APIs in Go", *jd.Description)
}

func TestBackendClient_ScoreResumeSendsReferenceOnly(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resumes/resume/score", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "42", r.FormValue("jd_id"))
		assert.Empty(t, r.FormValue("job_description"))

		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", fh.Filename)
		assert.Equal(t, "resume bytes", string(body))

		w.Write([]byte(`{"filename": "cv.pdf", "scores": {"relevance_score": 91, "ats_score": 80, "readability_score": 70.5}, "excerpt": "Go developer"}`))
	})

	res, err := client.ScoreResume(context.Background(), stagedFile(t, "cv.pdf", "resume bytes"), "42")
	require.NoError(t, err)
	require.NotNil(t, res.Scores)
	assert.Equal(t, models.Scalar("91"), res.Scores.RelevanceScore)
	assert.Equal(t, models.Scalar("70.5"), res.Scores.ReadabilityScore)
}

func TestBackendClient_ScoreResumeAgainstText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "We need a Go engineer", r.FormValue("job_description"))
		assert.Empty(t, r.FormValue("jd_id"))
		w.Write([]byte(`{"filename": "cv.pdf"}`))
	})

	_, err := client.ScoreResumeAgainstText(context.Background(), stagedFile(t, "cv.pdf", "x"), "We need a Go engineer")
	require.NoError(t, err)
}

func TestBackendClient_RecommendationsEncodesJobTitle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend/recommendations", r.URL.Path)
		assert.Equal(t, "ML & Data Engineer", r.URL.Query().Get("job_title"))
		w.Write([]byte(`{"recommendations": [{"candidate_name": "Ada", "recommendation_score": 88.4}]}`))
	})

	recs, err := client.Recommendations(context.Background(), "ML & Data Engineer")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ada", *recs[0].CandidateName)
}

func TestBackendClient_SubmitAssessment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["candidate_name"])
		assert.Nil(t, body["email"])
		assert.Equal(t, []interface{}{"a1", "a2"}, body["answers"])
		w.Write([]byte(`{"message": "Submission saved with feedback.", "grand_score_percent": 75.0}`))
	})

	ack, err := client.SubmitAssessment(context.Background(), models.AssessmentAnswers{
		CandidateName: "Ada",
		JobTitle:      "Backend Engineer",
		Answers:       []string{"a1", "a2"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Scalar("75.0"), ack.GrandScorePercent)
}

func TestBackendClient_StatusErrorCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Job Description not found for given jd_id."}`))
	})

	_, err := client.GetJD(context.Background(), "99")
	require.Error(t, err)

	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindRequest, se.Kind)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "Job Description not found for given jd_id.", se.Details)
}

func TestBackendClient_ValidationDetailList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"msg": "field required"}, {"msg": "value is not a valid email address"}]}`))
	})

	_, err := client.AssessmentQuestions(context.Background(), "x")
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "field required; value is not a valid email address", se.Details)
}

func TestBackendClient_PlainErrorBodyKeepsWholeRunes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("é", 300)))
	})

	_, err := client.ListJDs(context.Background())
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(se.Details))
	assert.Equal(t, maxDetailRunes, utf8.RuneCountInString(se.Details))
}

func TestBackendClient_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(BackendClient) error
	}{
		{
			name: "jd list is not an array",
			body: `{"items": []}`,
			call: func(c BackendClient) error { _, err := c.ListJDs(context.Background()); return err },
		},
		{
			name: "questions missing",
			body: `{"job_title": "x"}`,
			call: func(c BackendClient) error { _, err := c.AssessmentQuestions(context.Background(), "x"); return err },
		},
		{
			name: "submissions not a list",
			body: `{"submissions": "none"}`,
			call: func(c BackendClient) error { _, err := c.ListSubmissions(context.Background()); return err },
		},
		{
			name: "not json",
			body: `<html>gateway</html>`,
			call: func(c BackendClient) error { _, err := c.ListResumeScores(context.Background()); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			err := tt.call(client)
			se, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeMalformedResponse, se.Code)
		})
	}
}

func TestBackendClient_NullRecommendationsIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"job_title": "x", "recommendations": null}`))
	})

	recs, err := client.Recommendations(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBackendClient_TransportError(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.ListResumeScores(context.Background())
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTransportFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestBackendClient_Cancelled(t *testing.T) {
	release := make(chan struct{})
	var hits int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListSubmissions(ctx)
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCancelled, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
