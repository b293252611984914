package entity

// Lead represents a business believed to lack a website, sourced from a
// maps search.
type Lead struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	PlaceID       *string  `json:"place_id,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewsCount  *int     `json:"reviews_count,omitempty"`
	Reviews       []Review `json:"reviews"`
	StreetViewURL *string  `json:"street_view_url,omitempty"`
	ExtraInfo     string   `json:"extra_info,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
}

// Review is a single customer review snippet attached to a lead.
type Review struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}
