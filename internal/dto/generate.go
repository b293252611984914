package dto

// GenerateRequest is the payload accepted by the page generation endpoint.
type GenerateRequest struct {
	BizName  string `json:"biz_name"`
	Category string `json:"category,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// GenerateResponse carries the produced markup and its identifiers.
type GenerateResponse struct {
	HTML     string `json:"html"`
	SiteID   string `json:"site_id"`
	Filename string `json:"filename"`
}

// SiteResponse is returned when fetching a generated page by identifier.
type SiteResponse struct {
	HTML   string `json:"html"`
	SiteID string `json:"site_id"`
}
