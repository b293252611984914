package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/campaign"
	"github.com/octobees/webdone/internal/dto"
	"github.com/octobees/webdone/internal/entity"
	"github.com/octobees/webdone/internal/site"
)

// CampaignStarter launches outreach campaigns. Satisfied by
// *campaign.Runner.
type CampaignStarter interface {
	Start(ctx context.Context, query, location string, limit int, report func(string)) (*campaign.Campaign, error)
}

// AdminHandler exposes the operator console endpoints.
type AdminHandler struct {
	store     *site.Store
	campaigns CampaignStarter
	report    func(string)
}

// NewAdminHandler constructs an AdminHandler. report receives campaign
// progress lines; it may be nil.
func NewAdminHandler(store *site.Store, campaigns CampaignStarter, report func(string)) *AdminHandler {
	if report == nil {
		report = func(string) {}
	}
	return &AdminHandler{store: store, campaigns: campaigns, report: report}
}

// ListDemos handles GET /admin/demos requests, returning each stored
// page with its sidecar metadata when present.
func (h *AdminHandler) ListDemos(c echo.Context) error {
	files, err := h.store.List()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to list demos")
	}

	demos := make([]entity.SiteMeta, 0, len(files))
	for _, name := range files {
		meta, err := h.store.Meta(name)
		if err != nil {
			meta = entity.SiteMeta{Filename: name}
		}
		demos = append(demos, meta)
	}

	return Success(c, http.StatusOK, "", map[string]any{"demos": demos})
}

// StartCampaign handles POST /admin/campaign requests, the HTTP mirror
// of the chat /campaign command. Progress goes to the operator channel,
// not the HTTP response.
func (h *AdminHandler) StartCampaign(c echo.Context) error {
	var req dto.CampaignRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Query == "" || req.Location == "" {
		return Error(c, http.StatusBadRequest, "query and location are required")
	}

	// The campaign outlives this request; it must not inherit the
	// request context.
	run, err := h.campaigns.Start(context.Background(), req.Query, req.Location, req.Limit, h.report)
	if err != nil {
		if errors.Is(err, campaign.ErrBusy) {
			return Error(c, http.StatusConflict, "campaign limit reached, try again later")
		}
		return Error(c, http.StatusBadRequest, err.Error())
	}

	return Success(c, http.StatusAccepted, "campaign started", dto.CampaignResponse{
		CampaignID: run.ID,
		Query:      req.Query,
		Location:   req.Location,
		Limit:      req.Limit,
	})
}
