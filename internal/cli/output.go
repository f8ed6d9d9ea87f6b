package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
)

// listingJSON mirrors the HTTP list response.
type listingJSON struct {
	Items     []record.Record `json:"items"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	Pages     int             `json:"pages"`
	HasMore   bool            `json:"has_more"`
	TookMs    float64         `json:"took_ms"`
	Revision  string          `json:"revision"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// column is one table column resolved through the surface's field table.
type column struct {
	title string
	field string
}

var tableColumns = map[string][]column{
	SurfaceAssets: {
		{"ID", "id"}, {"NAME", "name"}, {"STATUS", "status"}, {"TYPE", "type"},
		{"LOCATION", "location"}, {"ASSIGNED", "assigned_to"}, {"NEXT SERVICE", "next_service_date"},
	},
	SurfaceActivity: {
		{"WHEN", "when"}, {"TYPE", "type"}, {"ASSET", "asset_name"}, {"ACTOR", "actor"}, {"NOTE", "note"},
	},
	SurfaceCerts: {
		{"ASSET", "asset_id"}, {"LABEL", "label"}, {"RELATED DATE", "related_date"},
		{"EXPIRY", certsuc.FieldExpiry}, {"DAYS LEFT", certsuc.FieldDaysLeft},
	},
}

func fieldTable(surface string) *field.Table {
	switch surface {
	case SurfaceAssets:
		return assetsuc.Schema().Fields
	case SurfaceActivity:
		return activityuc.Schema().Fields
	default:
		return certsuc.Schema().Fields
	}
}

// render prints l in the selected format. auto picks a table on terminals and JSON otherwise.
func (a *app) render(w io.Writer, surface string, l result.Listing) error {
	format := a.output
	if format == OutputAuto {
		format = OutputJSON
		if a.isTerminal(w) {
			format = OutputTable
		}
	}
	switch format {
	case OutputJSON:
		return writeListingJSON(w, l)
	case OutputTable:
		return writeTable(w, surface, l, a.clock())
	default:
		return fmt.Errorf("unknown output format %q: want auto, table or json", a.output)
	}
}

func writeListingJSON(w io.Writer, l result.Listing) error {
	items := l.Page.Items()
	if items == nil {
		items = []record.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listingJSON{
		Items:     items,
		Total:     l.Page.TotalAfterFilter(),
		Page:      l.Page.Index(),
		PageSize:  l.Page.Size(),
		Pages:     l.Page.Pages(),
		HasMore:   l.Page.HasMore(),
		TookMs:    float64(l.Page.Took().Microseconds()) / 1000,
		Revision:  l.Revision,
		FetchedAt: l.FetchedAt,
	})
}

func writeTable(w io.Writer, surface string, l result.Listing, now time.Time) error {
	cols := tableColumns[surface]
	fields := fieldTable(surface)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	cells := make([]string, len(cols))
	for _, r := range l.Page.Items() {
		for i, c := range cols {
			cells[i] = cell(fields, r, c.field)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d of %s results, page %d/%d, revision %s, fetched %s\n",
		len(l.Page.Items()),
		humanize.Comma(int64(l.Page.TotalAfterFilter())),
		l.Page.Index(), l.Page.Pages(),
		orDash(l.Revision),
		humanize.RelTime(l.FetchedAt, now, "ago", "from now"),
	)
	return err
}

// cell resolves name through the field table. Unknown names, such as the decorations
// added after the engine run, resolve as direct keys.
func cell(fields *field.Table, r record.Record, name string) string {
	return orDash(fields.Text(r, name))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "\t", " ")
}
