package services

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Envelope schemas only pin the top-level shape of each response. Record
// fields stay optional because every screen renders absent values as a
// placeholder.
const (
	objectSchema = `{"type": "object"}`

	arrayOfObjectsSchema = `{
		"type": "array",
		"items": {"type": "object"}
	}`

	resumeScoreSchema = `{
		"type": "object",
		"properties": {
			"scores": {"type": ["object", "null"]}
		}
	}`

	recommendationsSchema = `{
		"type": "object",
		"properties": {
			"recommendations": {"type": ["array", "null"], "items": {"type": "object"}}
		}
	}`

	transcriptSchema = `{
		"type": "object",
		"properties": {
			"emotion_tone": {"type": ["object", "null"]},
			"segments": {"type": ["array", "null"]}
		}
	}`

	questionsSchema = `{
		"type": "object",
		"required": ["questions"],
		"properties": {
			"questions": {"type": "array", "items": {"type": "string"}}
		}
	}`

	submissionsSchema = `{
		"type": "object",
		"properties": {
			"submissions": {"type": ["array", "null"], "items": {"type": "object"}}
		}
	}`
)

type responseSchemas struct {
	object          *gojsonschema.Schema
	arrayOfObjects  *gojsonschema.Schema
	resumeScore     *gojsonschema.Schema
	recommendations *gojsonschema.Schema
	transcript      *gojsonschema.Schema
	questions       *gojsonschema.Schema
	submissions     *gojsonschema.Schema
}

func mustCompileSchemas() *responseSchemas {
	return &responseSchemas{
		object:          mustSchema(objectSchema),
		arrayOfObjects:  mustSchema(arrayOfObjectsSchema),
		resumeScore:     mustSchema(resumeScoreSchema),
		recommendations: mustSchema(recommendationsSchema),
		transcript:      mustSchema(transcriptSchema),
		questions:       mustSchema(questionsSchema),
		submissions:     mustSchema(submissionsSchema),
	}
}

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid response schema: %v", err))
	}
	return schema
}

func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("response does not match expected shape: %s", strings.Join(msgs, "; "))
}
