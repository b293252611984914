package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/webdone/internal/auth"
	"github.com/octobees/webdone/internal/dto"
)

// AuthHandler authenticates the single operator account against
// environment-configured credentials.
type AuthHandler struct {
	jwt          *auth.JWTManager
	email        string
	passwordHash string
}

// NewAuthHandler constructs an AuthHandler. email and passwordHash come
// from configuration; when either is empty the login endpoint rejects
// everything.
func NewAuthHandler(jwt *auth.JWTManager, email, passwordHash string) *AuthHandler {
	return &AuthHandler{jwt: jwt, email: strings.ToLower(strings.TrimSpace(email)), passwordHash: passwordHash}
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	if h.email == "" || h.passwordHash == "" || req.Email != h.email {
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.jwt.IssueOperatorToken(req.Email)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{AccessToken: token})
}
