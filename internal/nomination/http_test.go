// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/ctxutil"
	"github.com/taibuivan/laureate/internal/platform/respond"
	"github.com/taibuivan/laureate/internal/platform/sec"
)

// jpegBytes starts with a JPEG signature so content sniffing recognises it.
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 64)...)

// newRouter mounts the handler the way the API server does. A non-nil claims
// value is injected as the authenticated reviewer.
func newRouter(fixture *serviceFixture, claims *sec.AuthClaims) http.Handler {
	handler := nomination.NewHandler(fixture.service)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/api/v1/nominations", handler.PublicRoutes())
	router.Mount("/api/v1/admin/nominations", handler.AdminRoutes())
	return router
}

type multipartFile struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func multipartBody(t *testing.T, draft any, files ...multipartFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if draft != nil {
		encoded, err := json.Marshal(draft)
		require.NoError(t, err)
		require.NoError(t, writer.WriteField("nomination", string(encoded)))
	}

	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.name+`"`)
		if file.contentType != "" {
			header.Set("Content-Type", file.contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeData[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var body T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func serve(router http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHTTP_SubmitThenStatus submits a complete nomination over multipart and
reads its status back through the public endpoint.
*/
func TestHTTP_SubmitThenStatus(t *testing.T) {
	fixture := newServiceFixture()
	router := newRouter(fixture, nil)

	body, contentType := multipartBody(t, validDraft(),
		multipartFile{field: "photo", name: "amina.jpg", content: jpegBytes},
		multipartFile{field: "supportingFiles", name: "letter.pdf", contentType: "application/pdf", content: []byte("%PDF-1.7")},
	)
	request := httptest.NewRequest(http.MethodPost, "/api/v1/nominations/", body)
	request.Header.Set("Content-Type", contentType)

	recorder := serve(router, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	fields := decodeBody[map[string]any](t, recorder)
	assert.Contains(t, fields, "submissionId")
	assert.Equal(t, "submitted", fields["status"])
	assert.NotContains(t, fields, "data")

	receipt := decodeBody[nomination.Receipt](t, recorder)
	assert.Regexp(t, submissionIDFormat, receipt.SubmissionID)
	assert.Equal(t, nomination.StatusSubmitted, receipt.Status)
	assert.Equal(t, nomination.StorageReport{Primary: true, Backup: true}, receipt.Storage)

	stored, err := fixture.repository.GetBySubmissionID(request.Context(), receipt.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, stored.Nominee.Photo)
	assert.Equal(t, "image/jpeg", stored.Nominee.Photo.ContentType)
	require.Len(t, stored.SupportingFiles, 1)
	assert.Equal(t, "letter.pdf", stored.SupportingFiles[0].Name)

	recorder = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/nominations/status/"+receipt.SubmissionID, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	view := decodeBody[nomination.StatusView](t, recorder)
	assert.Equal(t, nomination.StatusSubmitted, view.Status)
	assert.Equal(t, receipt.SubmissionID, view.SubmissionID)
}

func TestHTTP_Submit_Rejections(t *testing.T) {
	router := newRouter(newServiceFixture(), nil)

	t.Run("validation_errors_list_fields", func(t *testing.T) {
		draft := validDraft()
		draft.Impact = words(10)
		body, contentType := multipartBody(t, draft, multipartFile{field: "photo", name: "a.jpg", content: jpegBytes})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/nominations/", body)
		request.Header.Set("Content-Type", contentType)
		recorder := serve(router, request)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		envelope := decodeError(t, recorder)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
		assert.NotEmpty(t, envelope.Message)
		require.Len(t, envelope.Errors, 1)
		assert.Equal(t, "impact", envelope.Errors[0].Field)
		assert.Contains(t, envelope.Errors[0].Message, "currently 10")

		fields := decodeBody[map[string]any](t, recorder)
		assert.Contains(t, fields, "message")
		assert.Contains(t, fields, "errors")
	})

	t.Run("missing_nomination_field", func(t *testing.T) {
		body, contentType := multipartBody(t, nil, multipartFile{field: "photo", name: "a.jpg", content: jpegBytes})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/nominations/", body)
		request.Header.Set("Content-Type", contentType)
		recorder := serve(router, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("not_multipart", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/nominations/", strings.NewReader(`{"nominee":{}}`))
		request.Header.Set("Content-Type", "application/json")
		recorder := serve(router, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("too_many_supporting_files", func(t *testing.T) {
		var files []multipartFile
		files = append(files, multipartFile{field: "photo", name: "a.jpg", content: jpegBytes})
		for range 6 {
			files = append(files, multipartFile{field: "supportingFiles", name: "doc.pdf", contentType: "application/pdf", content: []byte("%PDF")})
		}
		body, contentType := multipartBody(t, validDraft(), files...)

		request := httptest.NewRequest(http.MethodPost, "/api/v1/nominations/", body)
		request.Header.Set("Content-Type", contentType)
		recorder := serve(router, request)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "supportingFiles", decodeError(t, recorder).Errors[0].Field)
	})
}

func TestHTTP_Categories(t *testing.T) {
	router := newRouter(newServiceFixture(), nil)

	recorder := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/nominations/categories", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	categories := decodeData[[]nomination.Category](t, recorder)
	assert.Len(t, categories, len(nomination.CategoryNames()))
}

func TestHTTP_Status_Unknown(t *testing.T) {
	router := newRouter(newServiceFixture(), nil)

	recorder := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/nominations/status/NOM-20260615103000-NOPE00", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, recorder).Code)
}

func TestHTTP_AdminRoutes(t *testing.T) {
	reviewer := &sec.AuthClaims{UserID: "reviewer-7", Role: string(sec.RoleReviewer)}
	admin := &sec.AuthClaims{UserID: "admin-1", Role: string(sec.RoleAdmin)}

	fixture := newServiceFixture()
	id := fixture.submit(t)

	t.Run("anonymous_is_unauthorized", func(t *testing.T) {
		recorder := serve(newRouter(fixture, nil), httptest.NewRequest(http.MethodGet, "/api/v1/admin/nominations/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("reviewer_lists_nominations", func(t *testing.T) {
		recorder := serve(newRouter(fixture, reviewer),
			httptest.NewRequest(http.MethodGet, "/api/v1/admin/nominations/?status=submitted,under-review&category=environmental-conservation", nil))
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		listed := decodeData[[]nomination.Nomination](t, recorder)
		require.Len(t, listed, 1)
		assert.Equal(t, id, listed[0].SubmissionID)
		assert.Equal(t, "Environmental Conservation", fixture.repository.lastFilter.Category)
		assert.Equal(t, []nomination.Status{nomination.StatusSubmitted, nomination.StatusUnderReview}, fixture.repository.lastFilter.Statuses)
	})

	t.Run("unknown_filter_is_rejected", func(t *testing.T) {
		recorder := serve(newRouter(fixture, reviewer), httptest.NewRequest(http.MethodGet, "/api/v1/admin/nominations/?status=archived", nil))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("reviewer_moves_status", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/nominations/"+id+"/status", strings.NewReader(`{"status":"under-review"}`))
		recorder := serve(newRouter(fixture, reviewer), request)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		updated := decodeData[nomination.Nomination](t, recorder)
		assert.Equal(t, nomination.StatusUnderReview, updated.Status)
		assert.Equal(t, "reviewer-7", updated.History[0].Actor)
	})

	t.Run("reviewer_records_verdict", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/nominations/"+id+"/review", strings.NewReader(`{"status":"needs-info","notes":"Need referee phone"}`))
		recorder := serve(newRouter(fixture, reviewer), request)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		updated := decodeData[nomination.Nomination](t, recorder)
		assert.Equal(t, nomination.ReviewNeedsInfo, updated.AdminReview.Status)
	})

	t.Run("reviewer_cannot_delete", func(t *testing.T) {
		recorder := serve(newRouter(fixture, reviewer), httptest.NewRequest(http.MethodDelete, "/api/v1/admin/nominations/"+id, nil))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_deletes", func(t *testing.T) {
		recorder := serve(newRouter(fixture, admin), httptest.NewRequest(http.MethodDelete, "/api/v1/admin/nominations/"+id, nil))
		assert.Equal(t, http.StatusNoContent, recorder.Code)

		recorder = serve(newRouter(fixture, nil), httptest.NewRequest(http.MethodGet, "/api/v1/nominations/status/"+id, nil))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
