package sdk

import "time"

// Record is one result row. Nested objects are map[string]any, numbers float64.
type Record map[string]any

// ListParams are shared by the three list endpoints. Zero values are omitted.
type ListParams struct {
	Q         string `url:"q,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Dir       string `url:"dir,omitempty"`
	NullsLast bool   `url:"nulls_last,omitempty"`
	Page      int    `url:"page,omitempty"`
	PageSize  int    `url:"page_size,omitempty"`
	All       bool   `url:"all,omitempty"`
}

// AssetsParams query GET /v1/assets/search.
type AssetsParams struct {
	ListParams
	Status     string `url:"status,omitempty"`
	Type       string `url:"type,omitempty"`
	Location   string `url:"location,omitempty"`
	AssignedTo string `url:"assigned_to,omitempty"`
	Unassigned bool   `url:"unassigned,omitempty"`
	DueSoon    bool   `url:"due_soon,omitempty"`
	OnlyMine   bool   `url:"only_mine,omitempty"`
}

// Activity ranges.
const (
	RangeAll    = "all"
	Range24h    = "24h"
	Range7d     = "7d"
	Range30d    = "30d"
	RangeCustom = "custom"
)

// ActivityParams query GET /v1/activity. From and To apply with RangeCustom.
type ActivityParams struct {
	ListParams
	Types      []string `url:"types,comma,omitempty"`
	AssetTypes []string `url:"asset_types,comma,omitempty"`
	Status     string   `url:"status,omitempty"`
	Range      string   `url:"range,omitempty"`
	From       string   `url:"from,omitempty"`
	To         string   `url:"to,omitempty"`
}

// Document expiry badges.
const (
	ExpiryNone     = "none"
	ExpiryExpired  = "expired"
	ExpiryExpiring = "expiring"
	ExpiryValid    = "valid"
)

// CertsParams query GET /v1/certs.
type CertsParams struct {
	ListParams
	Type     string `url:"type,omitempty"`
	Assigned string `url:"assigned,omitempty"`
	OnlyMine bool   `url:"only_mine,omitempty"`
	Label    string `url:"label,omitempty"`
	From     string `url:"from,omitempty"`
	To       string `url:"to,omitempty"`
	Expiry   string `url:"expiry,omitempty"`
	History  bool   `url:"history,omitempty"`
}

// Page is one page of results.
type Page struct {
	Items     []Record  `json:"items"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
	Pages     int       `json:"pages"`
	HasMore   bool      `json:"has_more"`
	TookMs    float64   `json:"took_ms"`
	Revision  string    `json:"revision"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Health is the body of GET /health.
type Health struct {
	Status  string            `json:"status"` // "ok", "degraded", "error"
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
