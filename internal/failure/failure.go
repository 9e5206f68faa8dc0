// Package failure classifies session errors into the categories reported to the user.
package failure

import (
	"fmt"
	"net/http"

	"emperror.dev/errors"

	"github.com/Cloudsky01/gh-runwatch/internal/github"
)

// Kind tags the category of a failure
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAPI
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAPI:
		return "api"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// ValidationError reports input that was rejected before any request was made
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid repository URL %q: %v", e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Report is the classified form of an error
type Report struct {
	Kind    Kind
	Status  int
	Message string
}

// Classify maps err to a Report. repo names the repository in API messages.
func Classify(err error, repo string) Report {
	if err == nil {
		return Report{Kind: KindUnknown, Message: "An unknown error occurred."}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Report{
			Kind:    KindValidation,
			Message: fmt.Sprintf("Invalid repository URL: %v", validationErr.Err),
		}
	}

	var reqErr *github.RequestError
	if errors.As(err, &reqErr) {
		return Report{
			Kind:    KindAPI,
			Status:  reqErr.Status,
			Message: apiMessage(reqErr, repo),
		}
	}

	if msg := err.Error(); msg != "" {
		return Report{Kind: KindGeneric, Message: "Error: " + msg}
	}

	return Report{Kind: KindUnknown, Message: "An unknown error occurred."}
}

func apiMessage(err *github.RequestError, repo string) string {
	switch err.Status {
	case http.StatusNotFound:
		return fmt.Sprintf("Repository not found: %s", repo)
	case http.StatusForbidden:
		return "API rate limit exceeded. Try again later."
	case http.StatusUnauthorized:
		return "Authentication required."
	default:
		return fmt.Sprintf("API error %d: %s", err.Status, err.Message)
	}
}
