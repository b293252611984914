package entity

import "time"

// SiteMeta is the sidecar record written next to every generated page.
type SiteMeta struct {
	ID       string    `json:"id"`
	BizName  string    `json:"biz_name"`
	Created  time.Time `json:"created"`
	Filename string    `json:"filename,omitempty"`
}
