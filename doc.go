// Package assetq embeds the assetq asset search, activity feed and document
// registry in a Go program. Queries run in process against the snapshots the
// assetq server reads from Valkey or Redis.
//
//	client, _ := assetq.New(ctx, assetq.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	res, _ := client.Assets().
//	    Query("field camera").
//	    Status("in_service").
//	    SortBy("name", "asc").
//	    Do(ctx)
//	for _, r := range res.Items {
//	    fmt.Println(r["id"], r["name"])
//	}
//
// # Activity and documents
//
//	feed, _ := client.Activity().Types("CHECK_OUT", "CHECK_IN").Range("7d").Do(ctx)
//	docs, _ := client.Certs().Expiry("expiring").OnlyMine("", "dana@example.com").Do(ctx)
//
// # Publishing snapshots
//
// Exporters replace a collection with Push. Readers see either the old or the
// new snapshot, never a mix.
//
//	info, _ := client.Push(ctx, "assets", records)
package assetq
