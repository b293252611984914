package caller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/webdone/internal/entity"
)

const defaultBaseURL = "https://api.retellai.com"

// HTTPClient abstracts the transport for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PitchWriter produces a personalized spoken opening line for a call.
type PitchWriter interface {
	PitchLine(ctx context.Context, name, category string) string
}

// Config carries the telephony credentials and link settings.
type Config struct {
	APIKey      string
	AgentID     string
	FromNumber  string
	ViewBaseURL string
}

// Dispatcher originates outbound presentation calls through the voice
// service. It never returns a Go error; every outcome is a CallResult.
type Dispatcher struct {
	cfg     Config
	baseURL string
	client  HTTPClient
	pitch   PitchWriter
	region  string
}

// DispatcherOption configures optional dependencies.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) DispatcherOption {
	return func(d *Dispatcher) {
		if client != nil {
			d.client = client
		}
	}
}

// WithBaseURL points the dispatcher at a different endpoint.
func WithBaseURL(base string) DispatcherOption {
	return func(d *Dispatcher) {
		if base != "" {
			d.baseURL = base
		}
	}
}

// NewDispatcher builds a dispatcher. pitch may be nil; the call then goes
// out without a personalized opening line beyond the fixed default the
// pitch writer would supply.
func NewDispatcher(cfg Config, pitch PitchWriter, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
		pitch:   pitch,
		region:  "RO",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Configured reports whether real calls can be placed.
func (d *Dispatcher) Configured() bool {
	return d.cfg.APIKey != "" && d.cfg.AgentID != ""
}

type createCallPayload struct {
	FromNumber       string            `json:"from_number"`
	ToNumber         string            `json:"to_number"`
	AgentID          string            `json:"agent_id"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables"`
}

type createCallResponse struct {
	CallID string `json:"call_id"`
}

// PlaceCall originates a call presenting the generated page. Without
// credentials it returns a dry-run result (still synthesizing the opening
// line for display) and performs no network activity.
func (d *Dispatcher) PlaceCall(ctx context.Context, lead entity.Lead, siteID string) entity.CallResult {
	demoURL := fmt.Sprintf("%s?id=%s", d.cfg.ViewBaseURL, siteID)

	opening := ""
	if d.pitch != nil {
		opening = d.pitch.PitchLine(ctx, lead.Name, lead.Category)
	}

	if !d.Configured() {
		log.Printf("caller: dry run biz=%s phone=%s site_id=%s", lead.Name, lead.Phone, siteID)
		return entity.CallResult{
			Status:      entity.CallStatusDryRun,
			SiteID:      siteID,
			DemoURL:     demoURL,
			OpeningLine: opening,
			Message:     fmt.Sprintf("ar fi sunat %s la %s cu codul %s", lead.Name, lead.Phone, siteID),
		}
	}

	payload := createCallPayload{
		FromNumber: d.cfg.FromNumber,
		ToNumber:   normalizePhone(lead.Phone, d.region),
		AgentID:    d.cfg.AgentID,
		DynamicVariables: map[string]string{
			"customer_name": lead.Name,
			"site_id":       siteID,
			"demo_url":      demoURL,
			"view_base_url": d.cfg.ViewBaseURL,
			"category":      lead.Category,
			"opening_line":  opening,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return entity.CallResult{Status: entity.CallStatusException, SiteID: siteID, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v2/create-phone-call", bytes.NewReader(body))
	if err != nil {
		return entity.CallResult{Status: entity.CallStatusException, SiteID: siteID, Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("caller: transport failure biz=%s err=%v", lead.Name, err)
		return entity.CallResult{Status: entity.CallStatusException, SiteID: siteID, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("caller: provider rejected call biz=%s status=%d", lead.Name, resp.StatusCode)
		return entity.CallResult{
			Status:  entity.CallStatusError,
			SiteID:  siteID,
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	var created createCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil && err != io.EOF {
		return entity.CallResult{Status: entity.CallStatusException, SiteID: siteID, Error: err.Error()}
	}

	log.Printf("caller: call registered biz=%s call_id=%s", lead.Name, created.CallID)
	return entity.CallResult{
		Status:      entity.CallStatusRegistered,
		CallID:      created.CallID,
		SiteID:      siteID,
		DemoURL:     demoURL,
		OpeningLine: opening,
	}
}

func normalizePhone(raw, region string) string {
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
