package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/dto"
	"github.com/octobees/webdone/internal/verify"
)

// VerifyHandler exposes email verification for the browser UI.
type VerifyHandler struct {
	service *verify.Service
}

func NewVerifyHandler(service *verify.Service) *VerifyHandler {
	return &VerifyHandler{service: service}
}

// Request handles POST /api/verify/request requests.
func (h *VerifyHandler) Request(c echo.Context) error {
	var req dto.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" {
		return Error(c, http.StatusBadRequest, "email is required")
	}

	if _, err := h.service.SendCode(req.Email); err != nil {
		return Error(c, http.StatusBadRequest, "invalid email address")
	}

	return Success(c, http.StatusOK, "verification code sent", nil)
}

// Check handles POST /api/verify/check requests.
func (h *VerifyHandler) Check(c echo.Context) error {
	var req dto.VerifyCheckRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		return Error(c, http.StatusBadRequest, "email and code are required")
	}

	if !h.service.CheckCode(req.Email, strings.TrimSpace(req.Code)) {
		return Error(c, http.StatusUnauthorized, "invalid or expired code")
	}

	return Success(c, http.StatusOK, "email verified", map[string]any{"verified": true})
}
