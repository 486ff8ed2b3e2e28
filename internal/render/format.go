package render

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/models"
)

// Placeholder stands in for any absent field.
const Placeholder = "-"

const (
	previewLimit      = 800
	pointsPerQuestion = 10
)

// Text renders an optional string field.
func Text(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Placeholder
	}
	return *s
}

// Scalar renders a numeric or textual field exactly as the backend sent it.
func Scalar(v models.Scalar) string {
	if v.IsZero() {
		return Placeholder
	}
	return v.String()
}

// FormatNumber drops trailing zeros: 20 renders as "20", 7.5 as "7.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ScoreTotal sums per-question scores. Absent or non-numeric scores count as 0.
func ScoreTotal(feedback []models.FeedbackEntry) float64 {
	var total float64
	for _, entry := range feedback {
		if v, ok := entry.Score.Float64(); ok {
			total += v
		}
	}
	return total
}

// ScoreMax is the best possible total for the given feedback.
func ScoreMax(feedback []models.FeedbackEntry) int {
	return pointsPerQuestion * len(feedback)
}

// GrandTotal renders "total/max" and "(percent%)". The percent is shown as
// received and is never recomputed from the total. Without feedback there is
// no max to show.
func GrandTotal(feedback []models.FeedbackEntry, percent models.Scalar) (string, string) {
	best := Placeholder
	if len(feedback) > 0 {
		best = strconv.Itoa(ScoreMax(feedback))
	}
	total := FormatNumber(ScoreTotal(feedback)) + "/" + best
	if percent.IsZero() {
		return total, "(" + Placeholder + ")"
	}
	return total, "(" + percent.String() + "%)"
}

func grandSummary(feedback []models.FeedbackEntry, percent models.Scalar) string {
	total, pct := GrandTotal(feedback, percent)
	return total + " " + pct
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp renders a backend timestamp as "2006-01-02 15:04". Unparseable
// values are shown unchanged.
func Timestamp(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Placeholder
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return *s
}

// Truncate shortens a JD description for the preview pane.
func Truncate(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Placeholder
	}
	if utf8.RuneCountInString(*s) <= previewLimit {
		return *s
	}
	runes := []rune(*s)
	return string(runes[:previewLimit]) + "…"
}

// JDLabel is the option text for a JD in the selector.
func JDLabel(jd models.JobDescription) string {
	if jd.JobTitle != nil && strings.TrimSpace(*jd.JobTitle) != "" {
		return *jd.JobTitle
	}
	return "JD #" + Scalar(jd.ID)
}

func errorMessage(err *apperrors.StandardError) string {
	if err == nil {
		return ""
	}
	return apperrors.UserMessage(err)
}
