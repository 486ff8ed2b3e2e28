package services

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/observability"
)

const maxResponseBytes = 16 << 20

// BackendClient calls the recruitment backend. Every method issues exactly one
// request and never retries.
type BackendClient interface {
	UploadJD(ctx context.Context, file *models.Upload) (*models.JDUploadResult, error)
	ListJDs(ctx context.Context) ([]models.JobDescription, error)
	GetJD(ctx context.Context, id string) (*models.JobDescription, error)
	ScoreResume(ctx context.Context, file *models.Upload, jdID string) (*models.ResumeScoreResult, error)
	ScoreResumeAgainstText(ctx context.Context, file *models.Upload, jobDescription string) (*models.ResumeScoreResult, error)
	ListResumeScores(ctx context.Context) ([]models.ResumeScoreRecord, error)
	Recommendations(ctx context.Context, jobTitle string) ([]models.RecommendationEntry, error)
	Transcribe(ctx context.Context, file *models.Upload) (*models.TranscriptResult, error)
	AssessmentQuestions(ctx context.Context, jobTitle string) ([]string, error)
	SubmitAssessment(ctx context.Context, answers models.AssessmentAnswers) (*models.SubmissionAck, error)
	ListSubmissions(ctx context.Context) ([]models.AssessmentSubmission, error)
}

type backendClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	obs        *observability.Observability
	log        logger.Logger
	schemas    *responseSchemas
}

func NewBackendClient(
	baseURL string,
	timeout time.Duration,
	obs *observability.Observability,
	log logger.Logger,
) BackendClient {
	var transportOpts []otelhttp.Option
	if mp := obs.MeterProvider(); mp != nil {
		transportOpts = append(transportOpts, otelhttp.WithMeterProvider(mp))
	}

	return &backendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport, transportOpts...),
		},
		obs:     obs,
		log:     log,
		schemas: mustCompileSchemas(),
	}
}

// UploadJD implements BackendClient.
func (b *backendClient) UploadJD(ctx context.Context, file *models.Upload) (*models.JDUploadResult, error) {
	body, contentType, err := multipartBody(file, nil)
	if err != nil {
		return nil, err
	}

	var out models.JDUploadResult
	if err := b.do(ctx, "jd.upload", http.MethodPost, "/jd/upload-jd/", body, contentType, b.schemas.object, &out); err != nil {
		return nil, fmt.Errorf("failed to upload job description: %w", err)
	}
	return &out, nil
}

// ListJDs implements BackendClient.
func (b *backendClient) ListJDs(ctx context.Context) ([]models.JobDescription, error) {
	var out []models.JobDescription
	if err := b.do(ctx, "jd.list", http.MethodGet, "/jd/list", nil, "", b.schemas.arrayOfObjects, &out); err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	return out, nil
}

// GetJD implements BackendClient.
func (b *backendClient) GetJD(ctx context.Context, id string) (*models.JobDescription, error) {
	var out models.JobDescription
	path := "/jd/" + url.PathEscape(id)
	if err := b.do(ctx, "jd.get", http.MethodGet, path, nil, "", b.schemas.object, &out); err != nil {
		return nil, fmt.Errorf("failed to get job description %s: %w", id, err)
	}
	return &out, nil
}

// ScoreResume implements BackendClient. The job description travels by
// reference only.
func (b *backendClient) ScoreResume(ctx context.Context, file *models.Upload, jdID string) (*models.ResumeScoreResult, error) {
	body, contentType, err := multipartBody(file, map[string]string{"jd_id": jdID})
	if err != nil {
		return nil, err
	}

	var out models.ResumeScoreResult
	if err := b.do(ctx, "resume.score", http.MethodPost, "/resumes/resume/score", body, contentType, b.schemas.resumeScore, &out); err != nil {
		return nil, fmt.Errorf("failed to score resume: %w", err)
	}
	return &out, nil
}

// ScoreResumeAgainstText implements BackendClient for backends that still
// accept the raw job description text.
func (b *backendClient) ScoreResumeAgainstText(ctx context.Context, file *models.Upload, jobDescription string) (*models.ResumeScoreResult, error) {
	body, contentType, err := multipartBody(file, map[string]string{"job_description": jobDescription})
	if err != nil {
		return nil, err
	}

	var out models.ResumeScoreResult
	if err := b.do(ctx, "resume.score", http.MethodPost, "/resumes/resume/score", body, contentType, b.schemas.resumeScore, &out); err != nil {
		return nil, fmt.Errorf("failed to score resume: %w", err)
	}
	return &out, nil
}

// ListResumeScores implements BackendClient.
func (b *backendClient) ListResumeScores(ctx context.Context) ([]models.ResumeScoreRecord, error) {
	var out []models.ResumeScoreRecord
	if err := b.do(ctx, "resume.scores", http.MethodGet, "/resumes/scores", nil, "", b.schemas.arrayOfObjects, &out); err != nil {
		return nil, fmt.Errorf("failed to list resume scores: %w", err)
	}
	return out, nil
}

// Recommendations implements BackendClient.
func (b *backendClient) Recommendations(ctx context.Context, jobTitle string) ([]models.RecommendationEntry, error) {
	path := "/recommend/recommendations?" + url.Values{"job_title": {jobTitle}}.Encode()

	var out models.RecommendationsResponse
	if err := b.do(ctx, "recommendations", http.MethodGet, path, nil, "", b.schemas.recommendations, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	return out.Recommendations, nil
}

// Transcribe implements BackendClient.
func (b *backendClient) Transcribe(ctx context.Context, file *models.Upload) (*models.TranscriptResult, error) {
	body, contentType, err := multipartBody(file, nil)
	if err != nil {
		return nil, err
	}

	var out models.TranscriptResult
	if err := b.do(ctx, "screening.transcribe", http.MethodPost, "/screening/transcribe", body, contentType, b.schemas.transcript, &out); err != nil {
		return nil, fmt.Errorf("failed to transcribe recording: %w", err)
	}
	return &out, nil
}

// AssessmentQuestions implements BackendClient.
func (b *backendClient) AssessmentQuestions(ctx context.Context, jobTitle string) ([]string, error) {
	path := "/interview/assessment/questions?" + url.Values{"job_title": {jobTitle}}.Encode()

	var out models.QuestionsResponse
	if err := b.do(ctx, "assessment.questions", http.MethodGet, path, nil, "", b.schemas.questions, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch assessment questions: %w", err)
	}
	return out.Questions, nil
}

// SubmitAssessment implements BackendClient.
func (b *backendClient) SubmitAssessment(ctx context.Context, answers models.AssessmentAnswers) (*models.SubmissionAck, error) {
	payload, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assessment answers: %w", err)
	}

	var out models.SubmissionAck
	if err := b.do(ctx, "assessment.submit", http.MethodPost, "/interview/assessment/submit", bytes.NewReader(payload), "application/json", b.schemas.object, &out); err != nil {
		return nil, fmt.Errorf("failed to submit assessment: %w", err)
	}
	return &out, nil
}

// ListSubmissions implements BackendClient.
func (b *backendClient) ListSubmissions(ctx context.Context) ([]models.AssessmentSubmission, error) {
	var out models.SubmissionsResponse
	if err := b.do(ctx, "assessment.submissions", http.MethodGet, "/interview/assessment/submissions", nil, "", b.schemas.submissions, &out); err != nil {
		return nil, fmt.Errorf("failed to list assessment submissions: %w", err)
	}
	return out.Submissions, nil
}

func (b *backendClient) do(
	ctx context.Context,
	endpoint, method, path string,
	body io.Reader,
	contentType string,
	schema *gojsonschema.Schema,
	out interface{},
) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := b.log.WithFields(map[string]interface{}{
		"endpoint":   endpoint,
		"method":     method,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		outcome := "transport"
		var classified error = apperrors.NewTransportError(err)
		if stderrors.Is(ctx.Err(), context.Canceled) {
			outcome = "cancelled"
			classified = apperrors.NewCancelledError(err)
		}
		b.obs.RecordRequest(ctx, endpoint, outcome, time.Since(start))
		log.Failure("backend request failed", classified)
		return classified
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		b.obs.RecordRequest(ctx, endpoint, "transport", time.Since(start))
		classified := apperrors.NewTransportError(err)
		log.Failure("failed to read backend response", classified)
		return classified
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.obs.RecordRequest(ctx, endpoint, fmt.Sprintf("status_%dxx", resp.StatusCode/100), time.Since(start))
		classified := apperrors.NewStatusError(resp.StatusCode, errorDetail(raw))
		log.Failure("backend returned error status", classified)
		return classified
	}

	if err := validateBody(schema, raw); err != nil {
		b.obs.RecordRequest(ctx, endpoint, "malformed", time.Since(start))
		classified := apperrors.NewMalformedResponseError(err)
		log.Failure("backend response rejected", classified)
		return classified
	}

	if err := json.Unmarshal(raw, out); err != nil {
		b.obs.RecordRequest(ctx, endpoint, "malformed", time.Since(start))
		classified := apperrors.NewMalformedResponseError(err)
		log.Failure("failed to decode backend response", classified)
		return classified
	}

	b.obs.RecordRequest(ctx, endpoint, "success", time.Since(start))
	log.Debug("backend request completed", map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// maxDetailRunes caps how much of a non-JSON error body reaches the page.
const maxDetailRunes = 200

// errorDetail pulls the human readable part out of an error body. FastAPI
// style backends send {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func errorDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		var text string
		if json.Unmarshal(envelope.Detail, &text) == nil && text != "" {
			return text
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(envelope.Detail, &items) == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	text := strings.TrimSpace(string(raw))
	if runes := []rune(text); len(runes) > maxDetailRunes {
		text = string(runes[:maxDetailRunes])
	}
	return text
}

func multipartBody(file *models.Upload, fields map[string]string) (io.Reader, string, error) {
	if file == nil {
		return nil, "", apperrors.MissingInput("file", "Please select a file first.")
	}

	src, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Filename)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to copy file into request: %w", err)
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
