// Package sdk is a Go client for the assetq HTTP API.
//
//	c, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey(os.Getenv("ASSETQ_API_KEY")))
//
//	page, _ := c.SearchAssets(ctx, sdk.AssetsParams{
//	    ListParams: sdk.ListParams{Q: "field camera", Sort: "name"},
//	    Status:     "in_service",
//	})
//	for _, r := range page.Items {
//	    fmt.Println(r["id"], r["name"])
//	}
//
// Queries that depend on the caller, such as only_mine, need an identity:
//
//	mine, _ := c.As("u-42", "dana@example.com").Certs(ctx, sdk.CertsParams{OnlyMine: true})
//
// Error responses come back as *APIError and match the package sentinels with errors.Is.
package sdk
