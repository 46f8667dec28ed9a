package backendapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

// Issue is one server-reported exception or warning.
type Issue struct {
	Message string     `json:"message"`
	Code    model.Text `json:"code,omitempty"`
	File    string     `json:"file,omitempty"`
	Line    model.Text `json:"line,omitempty"`
	Trace   string     `json:"trace,omitempty"`
}

// Summary is the one-line form shown in the message dialog.
func (i Issue) Summary() string {
	msg := strings.TrimSpace(i.Message)
	if msg == "" {
		msg = "unknown error"
	}
	if i.File != "" && i.Line != "" {
		return fmt.Sprintf("%s (%s:%s)", msg, i.File, i.Line)
	}
	return msg
}

// ExceptionsError is returned when the response carries an exceptions
// collection. The call must be treated as failed.
type ExceptionsError struct {
	Endpoint string
	Issues   []Issue
}

func (e *ExceptionsError) Error() string {
	if len(e.Issues) == 0 {
		return e.Endpoint + ": server reported exceptions"
	}
	return fmt.Sprintf("%s: server reported %d exception(s): %s", e.Endpoint, len(e.Issues), e.Issues[0].Summary())
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// DecodeError is returned when the body is not the JSON the endpoint promises.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// parseIssues accepts an array (or a single item) whose items are issue
// objects, JSON strings encoding an issue object, or plain message strings.
func parseIssues(raw json.RawMessage) []Issue {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return []Issue{{Message: string(raw)}}
		}
	} else {
		items = []json.RawMessage{raw}
	}

	issues := make([]Issue, 0, len(items))
	for _, item := range items {
		issues = append(issues, parseIssue(item))
	}
	return issues
}

func parseIssue(item json.RawMessage) Issue {
	item = bytes.TrimSpace(item)
	if len(item) > 0 && item[0] == '"' {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return Issue{Message: string(item)}
		}
		var nested Issue
		if strings.HasPrefix(strings.TrimSpace(s), "{") && json.Unmarshal([]byte(s), &nested) == nil {
			return nested
		}
		return Issue{Message: s}
	}

	var issue Issue
	if err := json.Unmarshal(item, &issue); err != nil {
		return Issue{Message: string(item)}
	}
	return issue
}
