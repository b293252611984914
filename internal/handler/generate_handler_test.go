package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/webdone/internal/generator"
)

type stubLLM struct {
	resp     string
	lastUser string
}

func (s *stubLLM) Complete(_ context.Context, _, user string) (string, error) {
	s.lastUser = user
	return s.resp, nil
}

const stubPage = `<!DOCTYPE html><html><head><title>Bella</title></head><body><h1>Bella</h1></body></html>`

func postGenerate(t *testing.T, h *GenerateHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestGenerateWithPromptOverride(t *testing.T) {
	store, counter := newTestStore(t)
	llm := &stubLLM{resp: "```html\n" + stubPage + "\n```"}
	gen := generator.New(llm, store, counter)
	h := NewGenerateHandler(gen, nil, "https://webdone.example")

	rec := postGenerate(t, h, `{"biz_name":"Trattoria Bella","prompt":"Fa-mi un site de restaurant."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if llm.lastUser != "Fa-mi un site de restaurant." {
		t.Fatalf("prompt was altered: %q", llm.lastUser)
	}

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			HTML     string `json:"html"`
			SiteID   string `json:"site_id"`
			Filename string `json:"filename"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "success" || len(payload.Data.SiteID) != 8 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if !strings.HasPrefix(payload.Data.Filename, "trattoria_bella_") {
		t.Fatalf("filename = %q", payload.Data.Filename)
	}
	if strings.Contains(payload.Data.HTML, "```") {
		t.Fatalf("fences not stripped:\n%s", payload.Data.HTML)
	}

	if counter.Value() != 150 {
		t.Fatalf("counter = %d, want 150", counter.Value())
	}
}

func TestGenerateFromBusinessFields(t *testing.T) {
	store, counter := newTestStore(t)
	llm := &stubLLM{resp: stubPage}
	h := NewGenerateHandler(generator.New(llm, store, counter), nil, "https://webdone.example")

	rec := postGenerate(t, h, `{"biz_name":"Trattoria Bella","category":"Restaurant","address":"Cluj","phone":"0722 111 222"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(llm.lastUser, "Trattoria Bella") || !strings.Contains(llm.lastUser, "Restaurant") {
		t.Fatalf("built prompt missing business facts: %q", llm.lastUser)
	}
}

func TestGenerateRejectsProfanity(t *testing.T) {
	store, counter := newTestStore(t)
	h := NewGenerateHandler(generator.New(&stubLLM{resp: stubPage}, store, counter), nil, "")

	rec := postGenerate(t, h, `{"biz_name":"Bella","prompt":"fa un site cu muie"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if counter.Value() != 149 {
		t.Fatalf("counter moved on rejected request")
	}
}

func TestGenerateRequiresModel(t *testing.T) {
	store, counter := newTestStore(t)
	h := NewGenerateHandler(generator.New(nil, store, counter), nil, "")

	rec := postGenerate(t, h, `{"biz_name":"Bella"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGenerateRejectsBadPayload(t *testing.T) {
	store, counter := newTestStore(t)
	h := NewGenerateHandler(generator.New(&stubLLM{resp: stubPage}, store, counter), nil, "")

	rec := postGenerate(t, h, `{"biz_name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
