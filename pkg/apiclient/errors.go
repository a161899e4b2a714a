package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// StatusError reports a non-2xx response. Message holds the backend detail
// when one was supplied; Fields maps validation failures to dotted field
// paths.
type StatusError struct {
	Code    int
	Method  string
	Path    string
	Message string
	Fields  map[string][]string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Code); text != "" {
		return text
	}
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Path, e.Code)
}

// StatusCode returns the HTTP status, defaulting to 500 for zero values.
func (e *StatusError) StatusCode() int {
	if e == nil || e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// FieldErrors returns the messages attached to a single field path.
func (e *StatusError) FieldErrors(path string) []string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e.Fields[path]
}

type errorPayload struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newStatusError(method, path string, code int, body []byte) *StatusError {
	out := &StatusError{
		Code:   code,
		Method: method,
		Path:   path,
		Body:   body,
	}
	if len(body) == 0 {
		return out
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		out.Message = strings.TrimSpace(string(body))
		return out
	}

	switch {
	case len(payload.Detail) > 0:
		out.Message, out.Fields = decodeDetail(payload.Detail)
	case payload.Error != "":
		out.Message = payload.Error
	case payload.Message != "":
		out.Message = payload.Message
	}
	return out
}

func decodeDetail(raw json.RawMessage) (string, map[string][]string) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), nil
	}

	var items []validationItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return strings.TrimSpace(string(raw)), nil
	}

	fields := make(map[string][]string)
	var formLevel []string
	for _, item := range items {
		msg := strings.TrimSpace(item.Msg)
		if msg == "" {
			continue
		}
		path := locationPath(item.Loc)
		if path == "" {
			formLevel = append(formLevel, msg)
			continue
		}
		fields[path] = append(fields[path], msg)
	}

	parts := make([]string, 0, len(fields)+len(formLevel))
	parts = append(parts, formLevel...)
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(fields[key], ", "))
	}
	if len(fields) == 0 {
		fields = nil
	}
	return strings.Join(parts, "; "), fields
}

// locationPath folds a validation location such as ["body", "items", 0,
// "name"] into "items.0.name", dropping the request-part wrapper.
func locationPath(loc []any) string {
	segments := make([]string, 0, len(loc))
	for i, raw := range loc {
		var segment string
		switch v := raw.(type) {
		case string:
			segment = strings.TrimSpace(v)
		case float64:
			segment = strconv.Itoa(int(v))
		default:
			segment = fmt.Sprint(v)
		}
		if i == 0 && isWrapperSegment(segment) {
			continue
		}
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return strings.Join(segments, ".")
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "query", "path", "header", "payload", "data":
		return true
	default:
		return false
	}
}
