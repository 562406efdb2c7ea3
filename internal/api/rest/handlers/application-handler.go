package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/api/rest/middleware"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
	"github.com/schemeseva/scheme-service/internal/services"
	pkgutils "github.com/schemeseva/scheme-service/pkg/utils"
)

// maxDocumentSize caps a single uploaded document at 10 MB.
const maxDocumentSize = 10 << 20

type ApplicationHandler struct {
	svc  services.ApplicationService
	auth helper.Auth
}

func NewApplicationHandler(svc services.ApplicationService, auth helper.Auth) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, auth: auth}
}

func (h *ApplicationHandler) SetupRoutes(app *fiber.App) {
	apps := app.Group("/api/applications", middleware.AuthMiddleware(h.auth))

	apps.Get("/", h.ListMine)
	apps.Post("/create", h.Create)
	apps.Get("/documents/:documentID/download", h.DownloadDocument)

	admin := apps.Group("/admin", middleware.AdminOnly())
	admin.Get("/", h.ListAll)
	admin.Patch("/:applicationID", h.Review)
	admin.Put("/:applicationID", h.Review)

	// Param route goes last so it cannot shadow the fixed paths above.
	apps.Get("/:applicationID", h.Get)
}

// Create accepts a multipart form and partitions it explicitly: every
// value part is a scalar field, every file part is a document upload.
func (h *ApplicationHandler) Create(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "multipart form data is required")
	}

	input := dto.ApplicationSubmitInput{
		SchemeID:      formValue(form.Value, "scheme_id"),
		ApplicationNo: formValue(form.Value, "application_id"),
		FormData:      formValue(form.Value, "form_data"),
	}

	for fieldName, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return utils.ResponseError(ctx, fiber.StatusBadRequest, "could not read uploaded file "+fieldName)
			}
			content, err := pkgutils.ReadAllLimit(file, maxDocumentSize)
			file.Close()
			if err != nil {
				if errors.Is(err, pkgutils.ErrTooLarge) {
					return utils.ResponseError(ctx, fiber.StatusBadRequest, "file "+fieldName+" exceeds the 10MB limit")
				}
				return utils.ResponseError(ctx, fiber.StatusBadRequest, "could not read uploaded file "+fieldName)
			}
			input.Files = append(input.Files, dto.DocumentInput{
				FieldName: fieldName,
				Filename:  filepath.Base(header.Filename),
				Bytes:     content,
			})
		}
	}

	application, err := h.svc.Submit(caller, input)
	if err != nil {
		return respondServiceError(ctx, err, "submission failed")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, application)
}

func (h *ApplicationHandler) ListMine(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	applications, err := h.svc.ListMine(caller)
	if err != nil {
		return respondServiceError(ctx, err, "could not load applications")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, applications)
}

func (h *ApplicationHandler) Get(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := paramUint(ctx, "applicationID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	application, err := h.svc.Get(caller, id)
	if err != nil {
		return respondServiceError(ctx, err, "could not load application")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, application)
}

func (h *ApplicationHandler) DownloadDocument(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	documentID, err := paramUint(ctx, "documentID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid document id")
	}

	doc, absPath, err := h.svc.Document(caller, documentID)
	if err != nil {
		return respondServiceError(ctx, err, "could not load document")
	}

	// The row can outlive the file if the disk was cleaned out of band.
	if _, err := os.Stat(absPath); err != nil {
		return utils.ResponseError(ctx, fiber.StatusNotFound, "document file not found")
	}

	return ctx.Download(absPath, doc.OriginalFilename)
}

func (h *ApplicationHandler) ListAll(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	filters := dto.ApplicationFilters{
		Status: strings.TrimSpace(ctx.Query("status")),
	}
	if raw := ctx.Query("scheme_id"); raw != "" {
		schemeID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme_id filter")
		}
		filters.SchemeID = uint(schemeID)
	}

	applications, err := h.svc.ListAll(caller, filters)
	if err != nil {
		return respondServiceError(ctx, err, "could not load applications")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, applications)
}

func (h *ApplicationHandler) Review(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := paramUint(ctx, "applicationID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	var input dto.ApplicationReviewInput
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	application, err := h.svc.Review(caller, id, input)
	if err != nil {
		return respondServiceError(ctx, err, "could not update application")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, application)
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
