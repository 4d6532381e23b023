package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/http/middleware"
	"github.com/Desarrollo-Prime/server-bigc/internal/service"
)

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// actorName returns the authenticated username for audit columns.
func actorName(c *fiber.Ctx) string {
	if p := middleware.PrincipalFromCtx(c); p != nil {
		return p.UserName
	}
	return ""
}

func writeUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "email already registered")
	case errors.Is(err, service.ErrUsernameTaken):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "username already registered")
	case errors.Is(err, service.ErrInvalidRole):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ROLE", "role is not valid")
	case errors.Is(err, service.ErrRoleChangeDenied):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// RegisterUser returns the handler for POST /users/register.
//
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.CreateUserInput true "New user"
// @Success 201 {object} model.User
// @Failure 409 {object} errorPayload
// @Router /users/register [post]
func RegisterUser(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if in.UserName == "" || in.Email == "" || in.Password == "" || in.RoleName == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "user_name, email, password and role_name are required")
		}

		user, err := userSvc.Create(c.UserContext(), in, actorName(c))
		if err != nil {
			return writeUserError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// ListUsers returns the handler for GET /users.
//
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /users [get]
func ListUsers(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userSvc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(users)
	}
}

// GetUser returns the handler for GET /users/:id.
//
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} model.User
// @Failure 404 {object} errorPayload
// @Router /users/{id} [get]
func GetUser(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		user, err := userSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeUserError(c, err)
		}
		return c.JSON(user)
	}
}

// UpdateUser returns the handler for PUT /users/:id. Role changes are
// only honored when the acting user holds SuperAdministrador.
//
// @Summary Update a user by id
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param user body service.UpdateUserInput true "Fields to update"
// @Success 200 {object} model.User
// @Failure 404 {object} errorPayload
// @Router /users/{id} [put]
func UpdateUser(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		var in service.UpdateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}

		principal := middleware.PrincipalFromCtx(c)
		if principal == nil {
			return fiber.ErrUnauthorized
		}
		user, err := userSvc.Update(c.UserContext(), id, in, principal.UserName, principal.Roles)
		if err != nil {
			return writeUserError(c, err)
		}
		return c.JSON(user)
	}
}

// DeleteUser returns the handler for DELETE /users/:id.
//
// @Summary Delete a user by id
// @Tags users
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /users/{id} [delete]
func DeleteUser(userSvc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := userSvc.Delete(c.UserContext(), id); err != nil {
			return writeUserError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
