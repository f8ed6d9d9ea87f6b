package assets

import (
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	"github.com/kailas-cloud/assetq/internal/engine"
)

// Sort fields accepted by Search.
const (
	SortRelevance  = query.FieldRelevance
	SortUpdatedAt  = "updated_at"
	SortName       = "name"
	SortServiceDue = "service_due"
	SortStatus     = "status"
	SortType       = "type"
	SortLocation   = "location"
	SortAssignedTo = "assigned_to"
	SortID         = "id"
)

var sortFields = map[string]bool{
	SortRelevance:  true,
	SortUpdatedAt:  true,
	SortName:       true,
	SortServiceDue: true,
	SortStatus:     true,
	SortType:       true,
	SortLocation:   true,
	SortAssignedTo: true,
	SortID:         true,
}

// SortFields lists the accepted sort fields.
func SortFields() []string {
	return []string{
		SortRelevance, SortUpdatedAt, SortName, SortServiceDue, SortStatus,
		SortType, SortLocation, SortAssignedTo, SortID,
	}
}

var fields = field.MustTable(map[string]field.Path{
	"name": {field.Direct("name"), field.Direct("asset_name")},
	"id":   {field.Direct("id"), field.Direct("asset_id")},
	"serial": {
		field.Direct("serial_number"), field.Direct("serial"),
		field.Bag(field.DefaultBag, "serial_number"), field.Bag(field.DefaultBag, "serial"),
	},
	"model":  {field.Direct("model"), field.Bag(field.DefaultBag, "model")},
	"type":   {field.Direct("asset_type"), field.Direct("type"), field.Nested("asset_types", "name")},
	"status": {field.Direct("status"), field.Bag(field.DefaultBag, "status")},
	"location": {
		field.Direct("location"), field.Bag(field.DefaultBag, "location"),
	},
	"assigned_to": {
		field.Direct("assigned_to"), field.Nested("users", "name"),
		field.Nested("users", "useremail"), field.Nested("users", "email"),
	},
	"assigned_email": {
		field.Nested("users", "useremail"), field.Nested("users", "email"), field.Direct("assigned_email"),
	},
	"assigned_uid": {field.Direct("assigned_to_id"), field.Nested("users", "id")},
	"next_service_date": {
		field.Direct("next_service_date"), field.Bag(field.DefaultBag, "next_service_date"),
	},
	"updated_at":  {field.Direct("updated_at"), field.Direct("created_at")},
	"notes":       {field.Direct("notes"), field.Bag(field.DefaultBag, "notes")},
	"description": {field.Direct("description"), field.Bag(field.DefaultBag, "description")},
})

// Schema returns the engine schema of asset records.
func Schema() engine.Schema {
	return engine.Schema{
		Fields: fields,
		Searchable: []string{
			"name", "id", "serial", "model", "type", "status",
			"location", "assigned_to", "notes", "description",
		},
		NameField: "name",
		IDField:   "id",
		Relevance: engine.Relevance{Weights: []engine.Weight{
			{Field: "serial", Points: 120},
			{Field: "model", Points: 90},
			{Field: "type", Points: 60},
			{Field: "location", Points: 40},
		}},
		Custom: map[string]engine.CustomSort{
			SortServiceDue: engine.DaysUntil("next_service_date"),
		},
		TieBreakers: []query.Sort{
			{Field: "name", Direction: direction.Asc},
			{Field: "id", Direction: direction.Asc},
		},
	}
}
