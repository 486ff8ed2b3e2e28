package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Scalar holds any JSON scalar as the text the backend sent. Numbers keep
// their original formatting, strings are unquoted and null becomes empty.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return &json.UnmarshalTypeError{Value: "object or array", Type: scalarType}
	}
	*s = Scalar(data)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(s), 64); err == nil {
		return []byte(s), nil
	}
	if s == "true" || s == "false" {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s Scalar) IsZero() bool {
	return strings.TrimSpace(string(s)) == ""
}

func (s Scalar) String() string {
	return string(s)
}

// Float64 reports the numeric value, if the scalar is a number.
func (s Scalar) Float64() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Upload is a file staged on local disk, ready to be forwarded to the backend.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Path        string
}
