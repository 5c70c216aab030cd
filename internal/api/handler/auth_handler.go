package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	mockToken   string
}

// NewAuthHandler serves login from local accounts.
func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// NewMockAuthHandler hands out the mock sentinel on every login.
func NewMockAuthHandler(token string) *AuthHandler {
	return &AuthHandler{mockToken: token}
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	if h.mockToken != "" {
		return c.JSON(http.StatusOK, loginResponse{AccessToken: h.mockToken, TokenType: "bearer"})
	}

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	issued, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: issued.AccessToken,
		TokenType:   issued.TokenType,
		User:        &issued.Identity,
	})
}

// Me returns the identity attached to the request.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

// CreateUser adds a local login account.
//
// @Summary      Create a local account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	if h.authService == nil {
		return echo.NewHTTPError(http.StatusNotFound, "local accounts are disabled")
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.CreateAccount(c.Request().Context(), ports.CreateAccountInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, account)
}
