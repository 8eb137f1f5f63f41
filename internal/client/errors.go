// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taibuivan/laureate/internal/platform/apperr"
)

var (
	// ErrFirstStep is returned by Retreat on step 1.
	ErrFirstStep = errors.New("client: already at the first step")

	// ErrNotFinalStep is returned by Submit before the consent step is reached.
	ErrNotFinalStep = errors.New("client: submit is only available on the final step")

	// ErrSubmissionInFlight rejects a second Submit while one is outstanding.
	ErrSubmissionInFlight = errors.New("client: a submission is already in progress")
)

// StepError explains why the current step cannot be left yet.
type StepError struct {
	Step   int
	Title  string
	Fields []apperr.FieldError
}

func (e *StepError) Error() string {
	messages := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		messages[i] = field.Field + ": " + field.Message
	}
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Title, strings.Join(messages, "; "))
}

/*
TransportError is a submission that did not reach a verdict: the server was
unreachable, the request timed out or the server failed (5xx).

The draft is untouched when this error is returned; the same submission may
be retried.
*/
type TransportError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission failed with HTTP %d: %v", e.StatusCode, e.Err)
	}
	return "submission could not reach the server: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports that the same submission may be sent again.
func (e *TransportError) Retryable() bool { return true }

// remoteError rebuilds the server's error envelope as an *apperr.AppError.
func remoteError(statusCode int, code, message string, details []apperr.FieldError) error {
	appErr := &apperr.AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: statusCode,
		Details:    details,
	}
	if appErr.Message == "" {
		appErr.Message = http.StatusText(statusCode)
	}

	if statusCode >= http.StatusInternalServerError {
		return &TransportError{StatusCode: statusCode, Err: appErr}
	}
	return appErr
}
