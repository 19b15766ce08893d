package handlers

import (
	"context"
	"net/http"

	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/services"
	"github.com/labstack/echo/v4"
)

// AccountService is the sign-in surface AuthHandler needs.
type AccountService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*services.Session, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*services.Session, error)
	FirebaseLogin(ctx context.Context, idToken string) (*services.Session, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts AccountService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.accounts.Signup(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, sess)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.accounts.SignIn(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, sess)
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.accounts.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, sess)
}
