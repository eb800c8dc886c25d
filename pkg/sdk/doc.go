// Package novelsearch runs the novel platform search pipeline in-process:
// chunked result loading, age buckets, local filters, sorting, facet clouds
// and pagination, on top of the platform REST API.
//
// # Sessions
//
// A Session accumulates the results of one search and serves pages from
// them. Changing only local parameters (page, size, sort, age and narrowing
// filters) never refetches.
//
//	client, _ := novelsearch.New(ctx, novelsearch.WithPlatform("https://novels.example"))
//	defer client.Close()
//
//	s := client.NewSession()
//	view, _ := s.Search(ctx, "mustInclude=竜&sortBy=views")
//	view, _ = s.Dispatch(ctx, novelsearch.Command{Type: novelsearch.CmdSetPage, Page: 2})
//
// # Cached lookups
//
// User stats and contest previews are cached in memory by default, or in
// Redis/Valkey with WithRedis or WithValkey.
//
//	stats, _ := client.UserStats(ctx, "6650f1...")
package novelsearch
