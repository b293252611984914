package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/dto"
	"github.com/octobees/webdone/internal/entity"
	"github.com/octobees/webdone/internal/generator"
	"github.com/octobees/webdone/internal/moderation"
	"github.com/octobees/webdone/internal/notify"
)

// GenerateHandler exposes page generation to the browser UI.
type GenerateHandler struct {
	generator *generator.Generator
	notifier  *notify.Telegram
	publicURL string
}

// NewGenerateHandler constructs a GenerateHandler. notifier may be nil.
func NewGenerateHandler(gen *generator.Generator, notifier *notify.Telegram, publicURL string) *GenerateHandler {
	return &GenerateHandler{generator: gen, notifier: notifier, publicURL: strings.TrimRight(publicURL, "/")}
}

// Generate handles POST /api/generate requests. A free-form prompt, when
// present, is forwarded to the text service verbatim; otherwise the
// instruction is built from the business fields.
func (h *GenerateHandler) Generate(c echo.Context) error {
	var req dto.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.BizName = strings.TrimSpace(req.BizName)
	if req.BizName == "" {
		req.BizName = "Business"
	}

	if !moderation.CleanRequest(req.BizName, req.Prompt) {
		return Error(c, http.StatusBadRequest, "offensive content detected, please keep it professional")
	}

	if !h.generator.Ready() {
		return Error(c, http.StatusServiceUnavailable, "text service not configured, check the API key")
	}

	var (
		meta entity.SiteMeta
		html string
		err  error
	)
	if strings.TrimSpace(req.Prompt) != "" {
		meta, html, err = h.generator.GenerateFromPrompt(c.Request().Context(), req.BizName, req.Prompt)
	} else {
		lead := entity.Lead{
			Name:     req.BizName,
			Category: req.Category,
			Address:  req.Address,
			Phone:    req.Phone,
		}
		meta, html, err = h.generator.Generate(c.Request().Context(), lead)
	}
	if err != nil {
		return Error(c, http.StatusInternalServerError, "generation failed")
	}

	h.notifier.SiteCreated(meta.BizName, meta.ID, h.publicURL+"/demos/"+meta.Filename)

	return Success(c, http.StatusOK, "site generated", dto.GenerateResponse{
		HTML:     html,
		SiteID:   meta.ID,
		Filename: meta.Filename,
	})
}
