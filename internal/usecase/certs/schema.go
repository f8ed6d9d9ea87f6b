package certs

import (
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	"github.com/kailas-cloud/assetq/internal/engine"
)

// Sort fields accepted by List.
const (
	SortRelatedDate = "related_date"
	SortCreatedAt   = "created_at"
	SortUpdatedAt   = "updated_at"
	SortDaysLeft    = "days_left"
	SortAssetID     = "asset_id"
	SortType        = "type"
	SortLabel       = "label"
	SortAssignedTo  = "assigned_to"
)

var sortFields = map[string]bool{
	SortRelatedDate: true,
	SortCreatedAt:   true,
	SortUpdatedAt:   true,
	SortDaysLeft:    true,
	SortAssetID:     true,
	SortType:        true,
	SortLabel:       true,
	SortAssignedTo:  true,
}

var fields = field.MustTable(map[string]field.Path{
	"id":         {field.Direct("id")},
	"asset_id":   {field.Direct("asset_id"), field.Nested("asset", "id")},
	"asset_name": {field.Nested("asset", "name"), field.Nested("asset", "model"), field.Direct("asset_name")},
	"type": {
		field.Nested("asset", "type"), field.Nested("asset", "asset_type"), field.Direct("asset_type"),
	},
	"model": {field.Nested("asset", "model"), field.Direct("model")},
	"assigned_to": {
		field.Nested("asset", "assigned_to"), field.Direct("assigned_to"), field.Nested("users", "name"),
	},
	"assigned_email": {
		field.Nested("asset", "assigned_email"), field.Direct("assigned_email"),
		field.Nested("users", "useremail"), field.Nested("users", "email"),
	},
	"assigned_uid": {
		field.Nested("asset", "assigned_to_id"), field.Direct("assigned_to_id"), field.Nested("users", "id"),
	},
	"label":        {field.Direct("title"), field.Direct("kind"), field.Direct("label")},
	"date_label":   {field.Direct("related_date_label")},
	"url":          {field.Direct("url")},
	"filename":     {field.Direct("filename"), field.Direct("file_name")},
	"related_date": {field.Direct("related_date")},
	"created_at":   {field.Direct("created_at")},
	"updated_at":   {field.Direct("updated_at"), field.Direct("created_at")},
	"field_id":     {field.Direct("asset_type_field_id")},
})

// Schema returns the engine schema of asset documents.
func Schema() engine.Schema {
	return engine.Schema{
		Fields: fields,
		Searchable: []string{
			"asset_id", "asset_name", "type", "model", "assigned_to",
			"label", "date_label", "filename", "url",
		},
		NameField: "label",
		IDField:   "asset_id",
		Custom: map[string]engine.CustomSort{
			SortDaysLeft: engine.DaysUntil("related_date"),
		},
		TieBreakers: []query.Sort{
			{Field: SortCreatedAt, Direction: direction.Desc},
			{Field: "id", Direction: direction.Asc},
		},
	}
}
