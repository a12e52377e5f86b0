package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body of /signup and /signin.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Sign-up data"
// @Success 201 {object} errors.Envelope{response=model.Identity}
// @Failure 400 {object} errors.Envelope
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	identity, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, apperrors.OK(identity))
}

// Signin godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} errors.Envelope{response=model.Identity}
// @Failure 400 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}

	identity, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apperrors.OK(identity))
}

func bindCredentials(c echo.Context) (*CredentialsRequest, error) {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return nil, apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return nil, apperrors.Validation("username and password are required")
	}
	return &req, nil
}
