package models

import "reflect"

var scalarType = reflect.TypeOf(Scalar(""))

type JobDescription struct {
	ID          Scalar  `json:"id"`
	JobTitle    *string `json:"job_title"`
	Description *string `json:"description"`
}

type JDUploadResult struct {
	Message  *string `json:"message"`
	JobTitle *string `json:"job_title"`
}

type ResumeScores struct {
	RelevanceScore   Scalar `json:"relevance_score"`
	ATSScore         Scalar `json:"ats_score"`
	ReadabilityScore Scalar `json:"readability_score"`
}

// ResumeScoreResult is the response to a single resume submission.
type ResumeScoreResult struct {
	ID       Scalar        `json:"id"`
	Filename *string       `json:"filename"`
	Scores   *ResumeScores `json:"scores"`
	Excerpt  *string       `json:"excerpt"`
	Feedback *string       `json:"feedback"`
	JDID     Scalar        `json:"jd_id"`
	JDTitle  *string       `json:"jd_title"`
}

// ResumeScoreRecord is one row of the resume scoring dashboard.
type ResumeScoreRecord struct {
	CandidateName    *string `json:"candidate_name"`
	Filename         *string `json:"filename"`
	RelevanceScore   Scalar  `json:"relevance_score"`
	ATSScore         Scalar  `json:"ats_score"`
	ReadabilityScore Scalar  `json:"readability_score"`
	CreatedAt        *string `json:"created_at"`
}

type RecommendationEntry struct {
	CandidateName       *string `json:"candidate_name"`
	Filename            *string `json:"filename"`
	RecommendationScore Scalar  `json:"recommendation_score"`
	MatchReason         *string `json:"match_reason"`
}

type RecommendationsResponse struct {
	JobTitle        *string               `json:"job_title"`
	Recommendations []RecommendationEntry `json:"recommendations"`
}

type EmotionTone struct {
	PrimaryTone        *string `json:"primary_tone"`
	ConfidenceEstimate Scalar  `json:"confidence_estimate"`
}

type TranscriptSegment struct {
	Start Scalar  `json:"start"`
	End   Scalar  `json:"end"`
	Text  *string `json:"text"`
}

type TranscriptResult struct {
	Filename    *string             `json:"filename"`
	Text        *string             `json:"text"`
	EmotionTone *EmotionTone        `json:"emotion_tone"`
	Segments    []TranscriptSegment `json:"segments"`
}

type QuestionsResponse struct {
	JobTitle  *string  `json:"job_title"`
	Questions []string `json:"questions"`
}

// AssessmentAnswers is the body of an assessment submission. Answers are
// positional: index i answers question i+1.
type AssessmentAnswers struct {
	CandidateName string   `json:"candidate_name"`
	Email         *string  `json:"email"`
	PhoneNumber   *string  `json:"phone_number"`
	JobTitle      string   `json:"job_title"`
	Answers       []string `json:"answers"`
}

type FeedbackEntry struct {
	QuestionNumber Scalar  `json:"question_number"`
	Answer         *string `json:"answer"`
	Feedback       *string `json:"feedback"`
	Score          Scalar  `json:"score"`
}

type SubmissionAck struct {
	Message           *string         `json:"message"`
	GrandScorePercent Scalar          `json:"grand_score_percent"`
	SubmittedAt       *string         `json:"submitted_at"`
	Feedback          []FeedbackEntry `json:"feedback"`
}

type AssessmentSubmission struct {
	CandidateName     *string         `json:"candidate_name"`
	Email             *string         `json:"email"`
	PhoneNumber       *string         `json:"phone_number"`
	JobTitle          *string         `json:"job_title"`
	SubmittedAt       *string         `json:"submitted_at"`
	Answers           []string        `json:"answers"`
	Feedback          []FeedbackEntry `json:"feedback"`
	GrandScorePercent Scalar          `json:"grand_score_percent"`
}

type SubmissionsResponse struct {
	Submissions []AssessmentSubmission `json:"submissions"`
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
