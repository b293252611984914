package dto

// CampaignRequest launches a lead-generation campaign over HTTP.
type CampaignRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Limit    int    `json:"limit,omitempty"`
}

// CampaignResponse acknowledges a started campaign.
type CampaignResponse struct {
	CampaignID string `json:"campaign_id"`
	Query      string `json:"query"`
	Location   string `json:"location"`
	Limit      int    `json:"limit"`
}
