package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

// loginRequest is the login payload. Field names match the public API
// contract, not the internal models.
type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// userPayload is the user object returned by login.
type userPayload struct {
	ID        int64    `json:"id"`
	UserName  string   `json:"userName"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CompanyID int64    `json:"companyId"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

func toUserPayload(u model.User) userPayload {
	return userPayload{
		ID:        u.ID,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     u.Roles,
		CompanyID: u.CompanyID,
	}
}

// Login returns the handler for POST /auth/login.
//
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Username and password"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorPayload
// @Router /auth/login [post]
func Login(authSvc auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if req.UserName == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "userName and password are required")
		}

		res, err := authSvc.Login(c.UserContext(), req.UserName, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				// Same message for unknown user, wrong password and
				// disabled/blocked accounts.
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(loginResponse{
			AccessToken: res.AccessToken,
			User:        toUserPayload(res.User),
		})
	}
}
