package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/webdone/internal/entity"
	"github.com/octobees/webdone/internal/site"
)

// ErrNotReady is returned by operations that cannot fall back to the
// static page when no text service is configured.
var ErrNotReady = errors.New("text service not configured")

const rawPromptSystem = "Esti un web designer expert. Raspunde DOAR cu documentul HTML cerut, fara explicatii."

var nonAlnumExpr = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Generator produces marketing pages for leads and stores them.
type Generator struct {
	llm     LLMClient
	store   *site.Store
	counter *site.Counter
}

// New wires the generator. llm may be nil when no text service is
// configured; every generation then yields the minimal fallback page.
func New(llm LLMClient, store *site.Store, counter *site.Counter) *Generator {
	return &Generator{llm: llm, store: store, counter: counter}
}

// Ready reports whether a text service is configured.
func (g *Generator) Ready() bool {
	return g.llm != nil
}

// NewSiteID returns an 8-character uppercase page identifier, the prefix
// of a fresh random UUID. Not a content hash: regenerating for the same
// business yields a different identifier.
func NewSiteID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Filename derives the stored name from the business name and site ID.
func Filename(bizName, siteID string) string {
	clean := strings.ToLower(nonAlnumExpr.ReplaceAllString(bizName, "_"))
	if clean == "" {
		clean = "site"
	}
	return clean + "_" + siteID + ".html"
}

// Generate builds the instruction for the lead, submits it to the text
// service, post-processes the result and stores it under a fresh
// identifier. A failing or malformed model response is replaced by the
// fallback page; only storage failures surface as errors.
func (g *Generator) Generate(ctx context.Context, lead entity.Lead) (entity.SiteMeta, string, error) {
	html := g.renderSite(ctx, lead)

	siteID := NewSiteID()
	filename := Filename(lead.Name, siteID)

	meta, err := g.store.Save(siteID, lead.Name, filename, html)
	if err != nil {
		return entity.SiteMeta{}, "", err
	}

	if _, err := g.counter.Increment(); err != nil {
		log.Printf("generator: counter increment failed err=%v", err)
	}

	log.Printf("generator: page created site_id=%s file=%s bytes=%d", siteID, filename, len(html))
	return meta, html, nil
}

// GenerateFromPrompt submits a caller-supplied instruction verbatim,
// bypassing the lead prompt builder. Used by the HTTP surface where the
// browser UI composes its own prompt. Unlike Generate it requires a
// configured text service and surfaces model failures to the caller.
func (g *Generator) GenerateFromPrompt(ctx context.Context, bizName, prompt string) (entity.SiteMeta, string, error) {
	if g.llm == nil {
		return entity.SiteMeta{}, "", ErrNotReady
	}

	raw, err := g.llm.Complete(ctx, rawPromptSystem, prompt)
	if err != nil {
		return entity.SiteMeta{}, "", fmt.Errorf("model call: %w", err)
	}
	html, _ := Postprocess(raw, bizName, "")

	siteID := NewSiteID()
	filename := Filename(bizName, siteID)

	meta, err := g.store.Save(siteID, bizName, filename, html)
	if err != nil {
		return entity.SiteMeta{}, "", err
	}

	if _, err := g.counter.Increment(); err != nil {
		log.Printf("generator: counter increment failed err=%v", err)
	}

	log.Printf("generator: page created site_id=%s file=%s bytes=%d", siteID, filename, len(html))
	return meta, html, nil
}

func (g *Generator) renderSite(ctx context.Context, lead entity.Lead) string {
	if g.llm == nil {
		return InjectImageGuard(FallbackPage(lead.Name, lead.Phone))
	}

	system, user := BuildSitePrompt(PromptDataFromLead(lead))
	raw, err := g.llm.Complete(ctx, system, user)
	if err != nil {
		log.Printf("generator: model call failed biz=%s err=%v", lead.Name, err)
		return InjectImageGuard(FallbackPage(lead.Name, lead.Phone))
	}

	html, ok := Postprocess(raw, lead.Name, lead.Phone)
	if !ok {
		log.Printf("generator: model response discarded biz=%s", lead.Name)
	}
	return html
}

// EnrichWithLinks regenerates the page body with updated contact/social
// links while preserving identifier and filename. On any model failure
// the stored document is left untouched and returned as-is.
func (g *Generator) EnrichWithLinks(ctx context.Context, siteID, extraInfo string) (string, error) {
	filename, original, err := g.store.Lookup(siteID)
	if err != nil {
		return "", err
	}
	if g.llm == nil || strings.TrimSpace(extraInfo) == "" {
		return original, nil
	}

	system, user := BuildEnrichPrompt(original, extraInfo)
	raw, err := g.llm.Complete(ctx, system, user)
	if err != nil {
		log.Printf("generator: enrich call failed site_id=%s err=%v", siteID, err)
		return original, nil
	}

	html := StripFences(raw)
	if !LooksLikeDocument(html) {
		log.Printf("generator: enrich response discarded site_id=%s", siteID)
		return original, nil
	}
	html = InjectImageGuard(html)

	if err := g.store.Update(filename, html); err != nil {
		return "", err
	}
	return html, nil
}

// PitchLine asks the text service for a personalized one-sentence call
// opening, falling back to the fixed default on any failure.
func (g *Generator) PitchLine(ctx context.Context, name, category string) string {
	if g.llm == nil {
		return defaultPitchLine
	}
	system, user := BuildPitchPrompt(name, category)
	raw, err := g.llm.Complete(ctx, system, user)
	if err != nil {
		log.Printf("generator: pitch call failed biz=%s err=%v", name, err)
		return defaultPitchLine
	}
	line := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if line == "" {
		return defaultPitchLine
	}
	return line
}
