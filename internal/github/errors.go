package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// RequestError describes a GitHub API call that completed with a non-2xx status
type RequestError struct {
	Status   int
	Message  string
	Response ResponseInfo
	Request  RequestInfo
}

// ResponseInfo holds the metadata of the failed response
type ResponseInfo struct {
	URL     string
	Status  int
	Headers map[string]string
	// Data is the decoded JSON body, the raw text body, or an empty object
	Data any
}

// RequestInfo describes the request that failed
type RequestInfo struct {
	Method  string
	URL     string
	Headers map[string]string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// NewRequestError builds a RequestError from a failed response.
// The body is buffered and put back on resp so callers can still read it.
func NewRequestError(resp *http.Response) *RequestError {
	headers := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		headers[strings.ToLower(key)] = resp.Header.Get(key)
	}

	var url string
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	data := readErrorData(resp)

	message := statusText(resp)
	if obj, ok := data.(map[string]any); ok {
		if msg, ok := obj["message"]; ok && msg != nil {
			message = fmt.Sprint(msg)
		}
	}

	return &RequestError{
		Status:  resp.StatusCode,
		Message: message,
		Response: ResponseInfo{
			URL:     url,
			Status:  resp.StatusCode,
			Headers: headers,
			Data:    data,
		},
		Request: RequestInfo{
			Method:  http.MethodGet,
			URL:     url,
			Headers: map[string]string{},
		},
	}
}

func readErrorData(resp *http.Response) any {
	if resp.Body == nil {
		return map[string]any{}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return map[string]any{}
	}

	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		if data == nil {
			return map[string]any{}
		}
		return data
	}

	if text := string(body); text != "" {
		return text
	}

	return map[string]any{}
}

// statusText returns the reason phrase the server sent, falling back to the standard one
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
