package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/dto"
	"github.com/octobees/webdone/internal/site"
)

// SiteHandler serves the static pages, the generated demo pages and the
// public stats and health endpoints.
type SiteHandler struct {
	store    *site.Store
	counter  *site.Counter
	webDir   string
	llmReady func() bool
}

// NewSiteHandler constructs a SiteHandler. llmReady reports whether a
// text service is configured, surfaced through the health endpoint.
func NewSiteHandler(store *site.Store, counter *site.Counter, webDir string, llmReady func() bool) *SiteHandler {
	if llmReady == nil {
		llmReady = func() bool { return false }
	}
	return &SiteHandler{store: store, counter: counter, webDir: webDir, llmReady: llmReady}
}

// Landing handles GET / requests.
func (h *SiteHandler) Landing(c echo.Context) error {
	return c.File(filepath.Join(h.webDir, "index.html"))
}

// View handles GET /view requests, the "open your site by code" page.
func (h *SiteHandler) View(c echo.Context) error {
	return c.File(filepath.Join(h.webDir, "view.html"))
}

// Demo handles GET /demos/:filename requests. Only the basename of the
// parameter is honored, so traversal attempts resolve inside the
// storage directory.
func (h *SiteHandler) Demo(c echo.Context) error {
	name := filepath.Base(c.Param("filename"))
	html, err := h.store.Read(name)
	if err != nil {
		return c.HTML(http.StatusNotFound, "<h1>404 – pagina nu exista.</h1>")
	}
	return c.HTML(http.StatusOK, html)
}

// ListDemos handles GET /api/demos requests.
func (h *SiteHandler) ListDemos(c echo.Context) error {
	files, err := h.store.List()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to list demos")
	}
	return Success(c, http.StatusOK, "", map[string]any{"demos": files})
}

// Stats handles GET /api/stats requests.
func (h *SiteHandler) Stats(c echo.Context) error {
	return Success(c, http.StatusOK, "", map[string]any{"sites_created": h.counter.Value()})
}

// Health handles GET /api/health requests.
func (h *SiteHandler) Health(c echo.Context) error {
	return Success(c, http.StatusOK, "service healthy", map[string]any{
		"status":    "ok",
		"llm_ready": h.llmReady(),
	})
}

// SiteByID handles GET /api/site/:id requests, matching the identifier
// exactly first and falling back to a substring scan.
func (h *SiteHandler) SiteByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return Error(c, http.StatusBadRequest, "site id is required")
	}

	_, html, err := h.store.Lookup(id)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			return Error(c, http.StatusNotFound, "site not found")
		}
		return Error(c, http.StatusInternalServerError, "unable to read site")
	}

	return Success(c, http.StatusOK, "", dto.SiteResponse{HTML: html, SiteID: id})
}
