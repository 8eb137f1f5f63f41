// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/constants"
	"github.com/taibuivan/laureate/internal/platform/middleware"
	requestutil "github.com/taibuivan/laureate/internal/platform/request"
	"github.com/taibuivan/laureate/internal/platform/respond"
	"github.com/taibuivan/laureate/internal/platform/sec"
	"github.com/taibuivan/laureate/internal/platform/validate"
	"github.com/taibuivan/laureate/internal/stage"
	"github.com/taibuivan/laureate/pkg/pagination"
	"github.com/taibuivan/laureate/pkg/query"
)

// Multipart field carrying the JSON draft.
const fieldNomination = "nomination"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// # Routes

// PublicRoutes is mounted at /nominations.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.submit)
	router.Get("/categories", handler.listCategories)
	router.Get("/status/{submissionId}", handler.getStatus)

	return router
}

// AdminRoutes is mounted at /admin/nominations. Every route needs a reviewer.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleReviewer))

	router.Get("/", handler.listNominations)
	router.Get("/{submissionId}", handler.getNomination)
	router.Patch("/{submissionId}/status", handler.updateStatus)
	router.Patch("/{submissionId}/review", handler.review)

	// Admin strict only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Delete("/{submissionId}", handler.deleteNomination)
		adminRoute.Post("/{submissionId}/restore", handler.restore)
	})

	return router
}

// # Public handlers

// submit handles POST /nominations (multipart/form-data). The 201 body is the
// bare receipt: {submissionId, status, storage}.
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxNominationBodyBytes)

	if err := request.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.PayloadTooLarge(constants.MaxNominationBodyBytes))
			return
		}
		respond.Error(writer, request, validate.RequiredError(fieldNomination, "Request must be multipart/form-data"))
		return
	}
	defer request.MultipartForm.RemoveAll()

	raw := request.MultipartForm.Value[fieldNomination]
	if len(raw) != 1 || raw[0] == "" {
		respond.Error(writer, request, validate.RequiredError(fieldNomination, "Exactly one nomination JSON field is required"))
		return
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw[0]), &draft); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	files, closeFiles, err := openUploads(request.MultipartForm)
	defer closeFiles()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	receipt, err := handler.service.Submit(request.Context(), draft, files)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, receipt)
}

// getStatus handles GET /nominations/status/{submissionId}.
func (handler *Handler) getStatus(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Status(request.Context(), requestutil.Param(request, "submissionId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, view)
}

// listCategories handles GET /nominations/categories.
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Categories())
}

// # Admin handlers

func (handler *Handler) listNominations(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		ReviewStatus: ReviewStatus(values.Get("reviewStatus")),
		Query:        values.Get("q"),
	}
	filter.IncludeDeleted, _ = strconv.ParseBool(values.Get("includeDeleted"))

	for _, status := range query.StringSlice(values.Get("status")) {
		filter.Statuses = append(filter.Statuses, Status(status))
	}

	v := &validate.Validator{}
	for _, status := range filter.Statuses {
		v.Custom("status", !status.Valid(), fmt.Sprintf("Unknown status %q", status))
	}
	if filter.ReviewStatus != "" {
		v.Custom("reviewStatus", !filter.ReviewStatus.Valid(), "Unknown review status")
	}
	if raw := values.Get("category"); raw != "" {
		category, ok := LookupCategory(raw)
		v.Custom("category", !ok, "Unknown award category")
		filter.Category = category.Name
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	nominations, total, err := handler.service.List(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, nominations, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getNomination(writer http.ResponseWriter, request *http.Request) {
	nomination, err := handler.service.Get(request.Context(), requestutil.Param(request, "submissionId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nomination)
}

func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Status Status `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	nomination, err := handler.service.TransitionStatus(request.Context(), requestutil.Param(request, "submissionId"), input.Status, claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nomination)
}

func (handler *Handler) review(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ReviewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	nomination, err := handler.service.Review(request.Context(), requestutil.Param(request, "submissionId"), input, claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nomination)
}

func (handler *Handler) deleteNomination(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "submissionId"), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) restore(writer http.ResponseWriter, request *http.Request) {
	nomination, err := handler.service.Restore(request.Context(), requestutil.Param(request, "submissionId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, nomination)
}

// # Multipart helpers

/*
openUploads opens the photo and supporting files of a multipart form.

The count limits are enforced before any file is opened. The returned close
function is always safe to call.
*/
func openUploads(form *multipart.Form) (Files, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, file := range opened {
			file.Close()
		}
	}

	photos := form.File[string(stage.SlotPhoto)]
	supporting := form.File[string(stage.SlotSupporting)]

	v := &validate.Validator{}
	v.Custom("nominee.photo", len(photos) > 1, "Only one photo may be uploaded")
	v.Custom("supportingFiles", len(supporting) > stage.MaxSupportingFiles,
		fmt.Sprintf("At most %d supporting files (count)", stage.MaxSupportingFiles))
	if err := v.Err(); err != nil {
		return Files{}, closeAll, err
	}

	open := func(header *multipart.FileHeader) (Upload, error) {
		file, err := header.Open()
		if err != nil {
			return Upload{}, apperr.Internal(fmt.Errorf("open upload %q: %w", header.Filename, err))
		}
		opened = append(opened, file)

		contentType, err := uploadContentType(header, file)
		if err != nil {
			return Upload{}, apperr.Internal(err)
		}

		return Upload{Name: header.Filename, ContentType: contentType, Size: header.Size, Body: file}, nil
	}

	var files Files
	if len(photos) == 1 {
		photo, err := open(photos[0])
		if err != nil {
			return Files{}, closeAll, err
		}
		files.Photo = &photo
	}

	for _, header := range supporting {
		upload, err := open(header)
		if err != nil {
			return Files{}, closeAll, err
		}
		files.Supporting = append(files.Supporting, upload)
	}

	return files, closeAll, nil
}

// uploadContentType trusts the declared part type and sniffs only when it is
// missing or generic.
func uploadContentType(header *multipart.FileHeader, file multipart.File) (string, error) {
	declared := stage.NormalizeType(header.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	sample := make([]byte, 512)
	read, err := io.ReadFull(file, sample)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("sniff upload %q: %w", header.Filename, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload %q: %w", header.Filename, err)
	}

	return stage.NormalizeType(http.DetectContentType(sample[:read])), nil
}
