package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/http/middleware"
	"github.com/Desarrollo-Prime/server-bigc/internal/service"
)

func writeDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrCompanyNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "company not found")
	case errors.Is(err, service.ErrAreaNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "area not found")
	case errors.Is(err, service.ErrStatusNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document status not found")
	case errors.Is(err, service.ErrDocumentExists):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "document name already exists in this company/area")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func formInt(c *fiber.Ctx, field string) (int64, bool) {
	v := c.FormValue(field)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UploadDocument returns the handler for POST /documents
// (multipart/form-data, field name: file).
//
// @Summary Upload a new document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param company_id formData int true "Company id"
// @Param area_id formData int false "Area id"
// @Param status_id formData int true "Document status id"
// @Param name formData string true "Document name"
// @Param description formData string false "Description"
// @Success 201 {object} model.Document
// @Failure 409 {object} errorPayload
// @Router /documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		companyID, ok := formInt(c, "company_id")
		if !ok || companyID == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "company_id is required")
		}
		areaID, ok := formInt(c, "area_id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid area_id")
		}
		statusID, ok := formInt(c, "status_id")
		if !ok || statusID == 0 {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "status_id is required")
		}
		name := c.FormValue("name")
		if name == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "name is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		principal := middleware.PrincipalFromCtx(c)
		if principal == nil {
			return fiber.ErrUnauthorized
		}

		in := service.UploadDocumentInput{
			CompanyID:   companyID,
			AreaID:      areaID,
			StatusID:    statusID,
			Name:        name,
			Description: c.FormValue("description"),
		}
		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, in, principal.UserID, principal.UserName)
		if err != nil {
			return writeDocumentError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns the handler for GET /documents with limit & offset.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetDocument returns the handler for GET /documents/:id.
//
// @Summary Get a document by id
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeDocumentError(c, err)
		}
		return c.JSON(doc)
	}
}

// presignExpiry is how long a presigned download URL stays valid.
const presignExpiry = 15 * time.Minute

// DownloadDocument returns the handler for GET /documents/:id/download.
// With ?presign=true the content is not proxied; instead a short-lived
// object storage URL is returned.
//
// @Summary Download a document's file content
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Document id"
// @Param presign query bool false "Return a presigned URL instead of the content"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		if c.QueryBool("presign") {
			url, err := docSvc.PresignDownload(c.UserContext(), id, presignExpiry)
			if err != nil {
				return writeDocumentError(c, err)
			}
			return c.JSON(fiber.Map{
				"url":        url,
				"expires_in": int(presignExpiry.Seconds()),
			})
		}

		rc, doc, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			return writeDocumentError(c, err)
		}
		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
		return c.SendStream(rc, int(doc.Size))
	}
}

// UpdateDocument returns the handler for PUT /documents/:id.
//
// @Summary Update document metadata by id
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document id"
// @Param document body service.UpdateDocumentInput true "Fields to update"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [put]
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var in service.UpdateDocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		doc, err := docSvc.Update(c.UserContext(), id, in, actorName(c))
		if err != nil {
			return writeDocumentError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument returns the handler for DELETE /documents/:id.
//
// @Summary Delete a document by id
// @Tags documents
// @Security BearerAuth
// @Param id path int true "Document id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return writeDocumentError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
