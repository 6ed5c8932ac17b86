// Package pricecheck embeds the shopping-list price comparison pipeline in-process.
//
// The client wires the same stages the HTTP service runs: query building,
// optional web evidence, prompt assembly, one model call, normalization and
// validation with ranking.
//
//	client, _ := pricecheck.New(
//	    pricecheck.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	    pricecheck.WithBing(os.Getenv("BING_API_KEY"), "he-IL"),
//	)
//	env, err := client.Compare(ctx, pricecheck.Request{
//	    Address:  "Tel Aviv, Dizengoff 50",
//	    RadiusKM: 3,
//	    ListText: "milk\nbread\neggs x12",
//	    UseWeb:   true,
//	})
//
// Any model can be plugged in through WithGenerator; search and page fetch
// through WithSearcher and WithFetcher.
package pricecheck
