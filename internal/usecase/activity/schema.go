package activity

import (
	"strings"

	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	"github.com/kailas-cloud/assetq/internal/engine"
)

// Sort fields accepted by Feed.
const (
	SortWhen      = "when"
	SortType      = "type"
	SortAssetType = "asset_type"
	SortActor     = "actor"
)

// Event kinds assigned to records that carry none.
const (
	KindAssetAction      = "ASSET_ACTION"
	KindAssetTypeCreated = "ASSET_TYPE_CREATED"
	KindAssetDeleted     = "ASSET_DELETED"
)

// TypeStatusChange is the only event type the status filter applies to.
const TypeStatusChange = "STATUS_CHANGE"

var defaultKinds = map[string]string{
	"asset_actions":   KindAssetAction,
	"asset_types":     KindAssetTypeCreated,
	"asset_deletions": KindAssetDeleted,
}

// kindFor returns the kind tag of events loaded from collection.
func kindFor(kinds map[string]string, collection string) string {
	if k, ok := kinds[collection]; ok {
		return k
	}
	if k, ok := defaultKinds[collection]; ok {
		return k
	}
	return strings.ToUpper(collection)
}

var fields = field.MustTable(map[string]field.Path{
	"id":   {field.Direct("id")},
	"kind": {field.Direct("kind")},
	"when": {
		field.Direct("when"), field.Direct("occurred_at"),
		field.Direct("deleted_at"), field.Direct("created_at"),
	},
	"type":       {field.Direct("type")},
	"asset_type": {field.Nested("asset", "type"), field.Direct("asset_type")},
	"asset_name": {field.Nested("asset", "name"), field.Direct("asset_name"), field.Direct("name")},
	"asset_id":   {field.Nested("asset", "id"), field.Direct("asset_id")},
	"actor":      {field.Direct("actor"), field.Direct("performed_by")},
	"note":       {field.Direct("note")},
	"from":       {field.Direct("from")},
	"to":         {field.Direct("to")},
	"status_target": {
		field.Nested("data", "newStatus"), field.Nested("data", "status"), field.Direct("note"),
	},
})

// Schema returns the engine schema of activity events.
func Schema() engine.Schema {
	return engine.Schema{
		Fields: fields,
		Searchable: []string{
			"type", "asset_name", "asset_id", "asset_type", "actor", "note", "from", "to",
		},
		NameField: "asset_name",
		IDField:   "asset_id",
		TieBreakers: []query.Sort{
			{Field: SortWhen, Direction: direction.Desc},
			{Field: "id", Direction: direction.Asc},
		},
	}
}
