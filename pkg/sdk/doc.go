// Package bizdex embeds the bizdex listing service in a Go program.
//
// The client wires the same use cases as the HTTP API over a chosen index
// backend: an embedded bleve index, Redis Stack, Elasticsearch or OpenSearch.
//
//	client, _ := bizdex.New(ctx, bizdex.WithBleve(""), bizdex.WithSamples())
//	defer client.Close()
//
//	page, _ := client.Listings().Search().
//	    Text("coffee").
//	    Near(12.97, 77.62).Km(5).
//	    SortByDistance().
//	    Do(ctx)
package bizdex
