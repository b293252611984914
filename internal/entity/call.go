package entity

// Call result statuses. A dispatcher never returns a Go error; every
// outcome is encoded in the Status field.
const (
	CallStatusRegistered = "registered"
	CallStatusDryRun     = "dry_run"
	CallStatusError      = "error"
	CallStatusException  = "exception"
)

// CallResult is the structured outcome of an outbound call attempt.
type CallResult struct {
	Status      string `json:"status"`
	CallID      string `json:"call_id,omitempty"`
	SiteID      string `json:"site_id"`
	DemoURL     string `json:"demo_url,omitempty"`
	OpeningLine string `json:"opening_line,omitempty"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DryRun reports whether the result was produced without a network call.
func (r CallResult) DryRun() bool {
	return r.Status == CallStatusDryRun
}

// OK reports whether the provider accepted the call.
func (r CallResult) OK() bool {
	return r.Status == CallStatusRegistered
}
