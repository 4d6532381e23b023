package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
	"github.com/Desarrollo-Prime/server-bigc/internal/service"
)

// ListCompanies returns the handler for GET /companies.
//
// @Summary List all companies
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Company
// @Router /companies [get]
func ListCompanies(companies repository.CompanyRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := companies.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// ListDocumentStatuses returns the handler for GET /document-statuses.
//
// @Summary List all document statuses
// @Tags document-statuses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.DocumentStatus
// @Router /document-statuses [get]
func ListDocumentStatuses(statuses repository.DocumentStatusRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := statuses.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// ListRoles returns the handler for GET /roles.
//
// @Summary List all roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Role
// @Router /roles [get]
func ListRoles(roles repository.RoleRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := roles.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

func writeAreaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAreaNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "area not found")
	case errors.Is(err, service.ErrCompanyNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "company not found")
	case errors.Is(err, service.ErrAreaNameRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "name is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// CreateArea returns the handler for POST /areas.
//
// @Summary Create an area
// @Tags areas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param area body service.AreaInput true "New area"
// @Success 201 {object} model.Area
// @Router /areas [post]
func CreateArea(areaSvc service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AreaInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		area, err := areaSvc.Create(c.UserContext(), in, actorName(c))
		if err != nil {
			return writeAreaError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(area)
	}
}

// ListAreas returns the handler for GET /areas.
//
// @Summary List all areas
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Area
// @Router /areas [get]
func ListAreas(areaSvc service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := areaSvc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// GetArea returns the handler for GET /areas/:id.
//
// @Summary Get an area by id
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Area id"
// @Success 200 {object} model.Area
// @Failure 404 {object} errorPayload
// @Router /areas/{id} [get]
func GetArea(areaSvc service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		area, err := areaSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeAreaError(c, err)
		}
		return c.JSON(area)
	}
}

// UpdateArea returns the handler for PUT /areas/:id.
//
// @Summary Update an area by id
// @Tags areas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Area id"
// @Param area body service.AreaInput true "Fields to update"
// @Success 200 {object} model.Area
// @Failure 404 {object} errorPayload
// @Router /areas/{id} [put]
func UpdateArea(areaSvc service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var in service.AreaInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		area, err := areaSvc.Update(c.UserContext(), id, in, actorName(c))
		if err != nil {
			return writeAreaError(c, err)
		}
		return c.JSON(area)
	}
}

// DeleteArea returns the handler for DELETE /areas/:id.
//
// @Summary Delete an area by id
// @Tags areas
// @Security BearerAuth
// @Param id path int true "Area id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /areas/{id} [delete]
func DeleteArea(areaSvc service.AreaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := areaSvc.Delete(c.UserContext(), id); err != nil {
			return writeAreaError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
