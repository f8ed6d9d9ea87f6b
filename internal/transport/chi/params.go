package chi

import (
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/assetq/internal/domain"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
)

// listParams are the ordering and paging parameters shared by every list endpoint.
type listParams struct {
	Keyword   string
	Sort      string
	Dir       string
	NullsLast bool
	Page      int
	PageSize  int
	All       bool
}

// param binds one query parameter.
type param func(q url.Values) error

// opt binds an optional form-style parameter into dest, leaving dest untouched when absent.
func opt[T any](name string, dest *T) param {
	return func(q url.Values) error {
		var v *T
		if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
			return domain.NewInvalidParam(name, "invalid value")
		}
		if v != nil {
			*dest = *v
		}
		return nil
	}
}

// bindAll binds params in order and stops at the first failure.
func bindAll(q url.Values, params ...param) error {
	for _, p := range params {
		if err := p(q); err != nil {
			return err
		}
	}
	return nil
}

func bindList(q url.Values) (listParams, error) {
	var p listParams
	err := bindAll(q,
		opt("q", &p.Keyword),
		opt("sort", &p.Sort),
		opt("dir", &p.Dir),
		opt("nulls_last", &p.NullsLast),
		opt("page", &p.Page),
		opt("page_size", &p.PageSize),
		opt("all", &p.All),
	)
	return p, err
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func assetsRequest(q url.Values) (assetsuc.Request, error) {
	lp, err := bindList(q)
	if err != nil {
		return assetsuc.Request{}, err
	}
	req := assetsuc.Request{
		Keyword:   lp.Keyword,
		Sort:      lp.Sort,
		Direction: lp.Dir,
		NullsLast: lp.NullsLast,
		Page:      lp.Page,
		PageSize:  lp.PageSize,
		All:       lp.All,
	}
	err = bindAll(q,
		opt("status", &req.Status),
		opt("type", &req.Type),
		opt("location", &req.Location),
		opt("assigned_to", &req.AssignedTo),
		opt("unassigned", &req.Unassigned),
		opt("due_soon", &req.DueSoon),
		opt("only_mine", &req.OnlyMine),
	)
	return req, err
}

func activityRequest(q url.Values) (activityuc.Request, error) {
	lp, err := bindList(q)
	if err != nil {
		return activityuc.Request{}, err
	}
	req := activityuc.Request{
		Keyword:   lp.Keyword,
		Sort:      lp.Sort,
		Direction: lp.Dir,
		NullsLast: lp.NullsLast,
		Page:      lp.Page,
		PageSize:  lp.PageSize,
		All:       lp.All,
	}
	var types, assetTypes []string
	err = bindAll(q,
		opt("types", &types),
		opt("asset_types", &assetTypes),
		opt("status", &req.Status),
		opt("range", &req.Range),
		opt("from", &req.From),
		opt("to", &req.To),
	)
	req.Types = splitList(types)
	req.AssetTypes = splitList(assetTypes)
	return req, err
}

func certsRequest(q url.Values) (certsuc.Request, error) {
	lp, err := bindList(q)
	if err != nil {
		return certsuc.Request{}, err
	}
	req := certsuc.Request{
		Keyword:   lp.Keyword,
		Sort:      lp.Sort,
		Direction: lp.Dir,
		NullsLast: lp.NullsLast,
		Page:      lp.Page,
		PageSize:  lp.PageSize,
		All:       lp.All,
	}
	err = bindAll(q,
		opt("type", &req.Type),
		opt("assigned", &req.Assigned),
		opt("only_mine", &req.OnlyMine),
		opt("label", &req.Label),
		opt("from", &req.From),
		opt("to", &req.To),
		opt("expiry", &req.Expiry),
		opt("history", &req.History),
	)
	return req, err
}
