package screens

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/services"
	"alfredoptarigan/hr-console/internal/view"
)

type WizardPhase string

const (
	PhaseProfile    WizardPhase = "profile"
	PhaseLoading    WizardPhase = "loading"
	PhaseAnswering  WizardPhase = "answering"
	PhaseSubmitting WizardPhase = "submitting"
	PhaseSubmitted  WizardPhase = "submitted"
)

const minJobTitleLength = 2

type Profile struct {
	CandidateName string
	Email         string
	PhoneNumber   string
	JobTitle      string
}

func (p Profile) normalized() Profile {
	return Profile{
		CandidateName: strings.TrimSpace(p.CandidateName),
		Email:         strings.TrimSpace(p.Email),
		PhoneNumber:   strings.TrimSpace(p.PhoneNumber),
		JobTitle:      strings.TrimSpace(p.JobTitle),
	}
}

func (p Profile) validate() error {
	if p.CandidateName == "" {
		return apperrors.MissingInput("candidate_name", "Please enter the candidate's name.")
	}
	if p.JobTitle == "" {
		return apperrors.MissingInput("job_title", "Please enter a job title.")
	}
	if utf8.RuneCountInString(p.JobTitle) < minJobTitleLength {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "job_title",
			fmt.Sprintf("Job title must be at least %d characters.", minJobTitleLength))
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "email", "Please enter a valid email address.")
	}
	return nil
}

// WizardState is an immutable copy of the wizard.
type WizardState struct {
	Phase     WizardPhase
	Profile   Profile
	Questions []string
	Answers   []string
	Index     int
	Ack       *models.SubmissionAck
	Err       *apperrors.StandardError
	CanNext   bool
	CanSubmit bool
}

// Current is the question being answered.
func (s WizardState) Current() string {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return ""
	}
	return s.Questions[s.Index]
}

func (s WizardState) CurrentAnswer() string {
	if s.Index < 0 || s.Index >= len(s.Answers) {
		return ""
	}
	return s.Answers[s.Index]
}

// AssessmentWizard collects a candidate profile, fetches questions for the
// job title, walks through them one at a time and submits every answer.
//
// profile -> loading -> answering -> submitting -> submitted
//
// A failed question fetch returns to profile; a failed submission returns to
// the last question with every answer kept. Navigation is forward only.
type AssessmentWizard struct {
	client services.BackendClient
	log    logger.Logger

	mu         sync.Mutex
	phase      WizardPhase
	profile    Profile
	questions  []string
	answers    []string
	index      int
	ack        *models.SubmissionAck
	err        *apperrors.StandardError
	generation uint64
	cancel     context.CancelFunc
	unmounted  bool
}

func NewAssessmentWizard(d Deps) *AssessmentWizard {
	return &AssessmentWizard{
		client: d.Client,
		log:    d.Log.WithFields(map[string]interface{}{"screen": "assessment"}),
		phase:  PhaseProfile,
	}
}

func (w *AssessmentWizard) Mount(context.Context) {}

func (w *AssessmentWizard) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.unmounted = true
	w.generation++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// Start validates the profile and fetches the questions for its job title.
func (w *AssessmentWizard) Start(ctx context.Context, profile Profile) error {
	profile = profile.normalized()

	w.mu.Lock()
	if err := w.guard(PhaseProfile); err != nil {
		w.mu.Unlock()
		return err
	}
	w.profile = profile
	if err := profile.validate(); err != nil {
		w.err = apperrors.Classify(err)
		w.mu.Unlock()
		return w.err
	}
	w.phase = PhaseLoading
	w.err = nil
	gen, reqCtx, cancel := w.begin(ctx)
	w.mu.Unlock()

	questions, err := w.client.AssessmentQuestions(reqCtx, profile.JobTitle)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.current(gen) {
		return view.ErrUnmounted
	}
	w.cancel = nil

	if err == nil && len(questions) == 0 {
		err = apperrors.NewMalformedResponseError(fmt.Errorf("no questions returned for %q", profile.JobTitle))
	}
	if err != nil {
		w.phase = PhaseProfile
		w.err = apperrors.Classify(err)
		w.log.Failure("failed to load assessment questions", err)
		return w.err
	}

	w.questions = append([]string(nil), questions...)
	w.answers = make([]string, len(questions))
	w.index = 0
	w.phase = PhaseAnswering
	return nil
}

// SetAnswer replaces the answer to the current question only.
func (w *AssessmentWizard) SetAnswer(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(PhaseAnswering); err != nil {
		return err
	}
	w.answers[w.index] = text
	return nil
}

// Next advances to the following question. It is unavailable on the last
// question and requires a non-blank answer to the current one.
func (w *AssessmentWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(PhaseAnswering); err != nil {
		return err
	}
	if w.index >= len(w.questions)-1 {
		w.err = apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "answer", "This is the last question. Submit your answers instead.")
		return w.err
	}
	if strings.TrimSpace(w.answers[w.index]) == "" {
		w.err = apperrors.MissingInput("answer", "Please answer this question before continuing.")
		return w.err
	}
	w.err = nil
	w.index++
	return nil
}

// Submit sends every answer. It is only available on the last question and
// only once every answer is non-blank.
func (w *AssessmentWizard) Submit(ctx context.Context) (*models.SubmissionAck, error) {
	w.mu.Lock()
	if err := w.guard(PhaseAnswering); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.index != len(w.questions)-1 {
		w.err = apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "answer", "Please answer every question before submitting.")
		w.mu.Unlock()
		return nil, w.err
	}
	for i, answer := range w.answers {
		if strings.TrimSpace(answer) == "" {
			w.err = apperrors.MissingInput("answer", fmt.Sprintf("Question %d has no answer.", i+1))
			w.mu.Unlock()
			return nil, w.err
		}
	}

	payload := models.AssessmentAnswers{
		CandidateName: w.profile.CandidateName,
		Email:         models.StringPtr(w.profile.Email),
		PhoneNumber:   models.StringPtr(w.profile.PhoneNumber),
		JobTitle:      w.profile.JobTitle,
		Answers:       append([]string(nil), w.answers...),
	}
	w.phase = PhaseSubmitting
	w.err = nil
	gen, reqCtx, cancel := w.begin(ctx)
	w.mu.Unlock()

	ack, err := w.client.SubmitAssessment(reqCtx, payload)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.current(gen) {
		return nil, view.ErrUnmounted
	}
	w.cancel = nil

	if err != nil {
		w.phase = PhaseAnswering
		w.err = apperrors.Classify(err)
		w.log.Failure("assessment submission failed", err)
		return nil, w.err
	}

	w.ack = ack
	w.phase = PhaseSubmitted
	w.log.Info("assessment submitted", map[string]interface{}{"questions": len(w.questions)})
	return ack, nil
}

func (w *AssessmentWizard) Snapshot() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return WizardState{
		Phase:     w.phase,
		Profile:   w.profile,
		Questions: append([]string(nil), w.questions...),
		Answers:   append([]string(nil), w.answers...),
		Index:     w.index,
		Ack:       w.ack,
		Err:       w.err,
		CanNext:   w.phase == PhaseAnswering && w.index < len(w.questions)-1,
		CanSubmit: w.phase == PhaseAnswering && len(w.questions) > 0 && w.index == len(w.questions)-1,
	}
}

// guard must be called with mu held.
func (w *AssessmentWizard) guard(want WizardPhase) error {
	switch {
	case w.unmounted:
		return view.ErrUnmounted
	case w.phase == PhaseLoading || w.phase == PhaseSubmitting:
		return apperrors.ErrInFlight
	case w.phase == PhaseSubmitted:
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "", "This assessment has already been submitted.")
	case w.phase != want:
		return apperrors.NewValidationError(apperrors.ErrCodeInvalidInput, "", "This step is not available yet.")
	}
	return nil
}

// begin must be called with mu held.
func (w *AssessmentWizard) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	w.generation++
	reqCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	return w.generation, reqCtx, cancel
}

func (w *AssessmentWizard) current(gen uint64) bool {
	return !w.unmounted && gen == w.generation
}
