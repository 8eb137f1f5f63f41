// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/respond"
)

// defaultHTTPTimeout applies when Session.HTTPClient is nil. Submissions are
// additionally bounded by the coordinator's SubmitTimeout.
const defaultHTTPTimeout = 2 * time.Minute

var defaultHTTPClient = &http.Client{Timeout: defaultHTTPTimeout}

/*
Session carries the connection settings of one API caller.

BaseURL includes the API version prefix, e.g. "https://awards.example.org/api/v1".
Token is a reviewer access token and is only sent when set.
*/
type Session struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// # Applicant

// FetchStatus reads the public status of a submission.
func (session Session) FetchStatus(context context.Context, submissionID string) (*nomination.StatusView, error) {
	var view nomination.StatusView
	path := "/nominations/status/" + url.PathEscape(submissionID)
	if err := session.do(context, http.MethodGet, path, nil, "", &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Categories lists the award categories accepted by the server.
func (session Session) Categories(context context.Context) ([]nomination.Category, error) {
	var categories []nomination.Category
	envelope := respond.SuccessEnvelope{Data: &categories}
	if err := session.do(context, http.MethodGet, "/nominations/categories", nil, "", &envelope); err != nil {
		return nil, err
	}
	return categories, nil
}

// # Reviewer

// ReviewNomination records a verdict. Requires a reviewer token.
func (session Session) ReviewNomination(context context.Context, submissionID string, input nomination.ReviewInput) (*nomination.Nomination, error) {
	var updated nomination.Nomination
	path := "/admin/nominations/" + url.PathEscape(submissionID) + "/review"
	if err := session.sendJSON(context, http.MethodPatch, path, input, &respond.SuccessEnvelope{Data: &updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus moves a nomination along the status machine. Requires a reviewer token.
func (session Session) UpdateStatus(context context.Context, submissionID string, status nomination.Status) (*nomination.Nomination, error) {
	var updated nomination.Nomination
	path := "/admin/nominations/" + url.PathEscape(submissionID) + "/status"
	body := struct {
		Status nomination.Status `json:"status"`
	}{Status: status}

	if err := session.sendJSON(context, http.MethodPatch, path, body, &respond.SuccessEnvelope{Data: &updated}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// # Plumbing

func (session Session) sendJSON(context context.Context, method, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("client: encode request: %w", err)
	}
	return session.do(context, method, path, bytes.NewReader(encoded), "application/json", out)
}

/*
do sends one request and decodes the response body into out.

Public submission endpoints answer with a bare resource; admin and catalogue
endpoints wrap theirs, so callers pass a *respond.SuccessEnvelope there.

Returns:
  - error: *TransportError when no response arrived or the server failed (5xx),
    *apperr.AppError for any other non-2xx response, nil otherwise
*/
func (session Session) do(context context.Context, method, path string, body io.Reader, contentType string, out any) error {
	request, err := http.NewRequestWithContext(context, method, strings.TrimRight(session.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("Accept", "application/json")
	if session.Token != "" {
		request.Header.Set("Authorization", "Bearer "+session.Token)
	}

	httpClient := session.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var envelope respond.ErrorEnvelope
		_ = json.NewDecoder(response.Body).Decode(&envelope)
		return remoteError(response.StatusCode, envelope.Code, envelope.Message, envelope.Errors)
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &TransportError{StatusCode: response.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
