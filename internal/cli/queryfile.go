package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/assetq/internal/domain"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
)

// QueryFile is a saved query. Every field is also a flag; flags given on the command
// line override the file. Fields a surface does not know are ignored by it.
type QueryFile struct {
	Keyword string `yaml:"q" json:"q" toml:"q" flag:"q"`

	Status     string   `yaml:"status" json:"status" toml:"status" flag:"status"`
	Type       string   `yaml:"type" json:"type" toml:"type" flag:"type"`
	Location   string   `yaml:"location" json:"location" toml:"location" flag:"location"`
	AssignedTo string   `yaml:"assigned_to" json:"assigned_to" toml:"assigned_to" flag:"assigned-to"`
	Assigned   string   `yaml:"assigned" json:"assigned" toml:"assigned" flag:"assigned"`
	Label      string   `yaml:"label" json:"label" toml:"label" flag:"label"`
	Expiry     string   `yaml:"expiry" json:"expiry" toml:"expiry" flag:"expiry"`
	Types      []string `yaml:"types" json:"types" toml:"types" flag:"types"`
	AssetTypes []string `yaml:"asset_types" json:"asset_types" toml:"asset_types" flag:"asset-types"`
	Range      string   `yaml:"range" json:"range" toml:"range" flag:"range"`
	From       string   `yaml:"from" json:"from" toml:"from" flag:"from"`
	To         string   `yaml:"to" json:"to" toml:"to" flag:"to"`

	Unassigned bool `yaml:"unassigned" json:"unassigned" toml:"unassigned" flag:"unassigned"`
	DueSoon    bool `yaml:"due_soon" json:"due_soon" toml:"due_soon" flag:"due-soon"`
	OnlyMine   bool `yaml:"only_mine" json:"only_mine" toml:"only_mine" flag:"only-mine"`
	History    bool `yaml:"history" json:"history" toml:"history" flag:"history"`

	Sort      string `yaml:"sort" json:"sort" toml:"sort" flag:"sort"`
	Dir       string `yaml:"dir" json:"dir" toml:"dir" flag:"dir"`
	NullsLast bool   `yaml:"nulls_last" json:"nulls_last" toml:"nulls_last" flag:"nulls-last"`
	Page      int    `yaml:"page" json:"page" toml:"page" flag:"page"`
	PageSize  int    `yaml:"page_size" json:"page_size" toml:"page_size" flag:"page-size"`
	All       bool   `yaml:"all" json:"all" toml:"all" flag:"all"`

	// Identity used by only_mine.
	UserID    string `yaml:"user_id" json:"user_id" toml:"user_id" flag:"user-id"`
	UserEmail string `yaml:"user_email" json:"user_email" toml:"user_email" flag:"user-email"`
}

// LoadQueryFile reads a query saved as .yaml, .yml, .json or .toml.
func LoadQueryFile(path string) (QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QueryFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	var q QueryFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&q); errors.Is(err, io.EOF) {
			err = nil
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&q)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&q)
	default:
		return QueryFile{}, fmt.Errorf("unsupported query file %s: want .yaml, .json or .toml", path)
	}
	if err != nil {
		return QueryFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return q, nil
}

func (q *QueryFile) bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&q.Keyword, "q", "", "keyword")
	f.StringVar(&q.Status, "status", "", "asset status or activity target status")
	f.StringVar(&q.Type, "type", "", "asset type")
	f.StringVar(&q.Location, "location", "", "asset location (contains)")
	f.StringVar(&q.AssignedTo, "assigned-to", "", "asset assignee (contains)")
	f.StringVar(&q.Assigned, "assigned", "", "document assignee (contains)")
	f.StringVar(&q.Label, "label", "", "document label")
	f.StringVar(&q.Expiry, "expiry", "", "document expiry: none, expired, expiring, valid")
	f.StringSliceVar(&q.Types, "types", nil, "activity event types")
	f.StringSliceVar(&q.AssetTypes, "asset-types", nil, "activity asset types")
	f.StringVar(&q.Range, "range", "", "activity range: all, 24h, 7d, 30d, custom")
	f.StringVar(&q.From, "from", "", "range start, YYYY-MM-DD or DD/MM/YYYY")
	f.StringVar(&q.To, "to", "", "range end (inclusive)")
	f.BoolVar(&q.Unassigned, "unassigned", false, "only unassigned assets")
	f.BoolVar(&q.DueSoon, "due-soon", false, "only assets due for service soon")
	f.BoolVar(&q.OnlyMine, "only-mine", false, "only records assigned to --user-id/--user-email")
	f.BoolVar(&q.History, "history", false, "list every document version")
	f.StringVar(&q.Sort, "sort", "", "sort field")
	f.StringVar(&q.Dir, "dir", "", "sort direction: asc, desc")
	f.BoolVar(&q.NullsLast, "nulls-last", false, "order records without the sort value last")
	f.IntVar(&q.Page, "page", 0, "page index, 1-based")
	f.IntVar(&q.PageSize, "page-size", 0, "page size")
	f.BoolVar(&q.All, "all", false, "return every match")
	f.StringVar(&q.UserID, "user-id", "", "caller id for --only-mine")
	f.StringVar(&q.UserEmail, "user-email", "", "caller email for --only-mine")
}

// overlay copies the fields of src whose flag was set on the command line.
func (q *QueryFile) overlay(src *QueryFile, changed func(name string) bool) {
	dv := reflect.ValueOf(q).Elem()
	sv := reflect.ValueOf(src).Elem()
	t := dv.Type()
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("flag"); name != "" && changed(name) {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}

func (q *QueryFile) caller() domain.Caller {
	return domain.Caller{ID: q.UserID, Email: q.UserEmail}
}

func (q *QueryFile) assets() assetsuc.Request {
	return assetsuc.Request{
		Keyword:    q.Keyword,
		Status:     q.Status,
		Type:       q.Type,
		Location:   q.Location,
		AssignedTo: q.AssignedTo,
		Unassigned: q.Unassigned,
		DueSoon:    q.DueSoon,
		OnlyMine:   q.OnlyMine,
		Sort:       q.Sort,
		Direction:  q.Dir,
		NullsLast:  q.NullsLast,
		Page:       q.Page,
		PageSize:   q.PageSize,
		All:        q.All,
	}
}

func (q *QueryFile) activity() activityuc.Request {
	return activityuc.Request{
		Keyword:    q.Keyword,
		Types:      q.Types,
		AssetTypes: q.AssetTypes,
		Status:     q.Status,
		Range:      q.Range,
		From:       q.From,
		To:         q.To,
		Sort:       q.Sort,
		Direction:  q.Dir,
		NullsLast:  q.NullsLast,
		Page:       q.Page,
		PageSize:   q.PageSize,
		All:        q.All,
	}
}

func (q *QueryFile) certs() certsuc.Request {
	return certsuc.Request{
		Keyword:   q.Keyword,
		Type:      q.Type,
		Assigned:  q.Assigned,
		OnlyMine:  q.OnlyMine,
		Label:     q.Label,
		From:      q.From,
		To:        q.To,
		Expiry:    q.Expiry,
		History:   q.History,
		Sort:      q.Sort,
		Direction: q.Dir,
		NullsLast: q.NullsLast,
		Page:      q.Page,
		PageSize:  q.PageSize,
		All:       q.All,
	}
}
