package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
)

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	route := fs.String("route", "", "Force the route: inline or worker")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 2 {
		fatalf("search: need a file or URL and a query")
	}

	cfg := mustConfig()
	res, err := loadResult(context.Background(), fs.Arg(0), cfg)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()
	engine := query.NewEngine(query.Options{
		WorkerThreshold: cfg.Query.WorkerThreshold,
		FuzzyThreshold:  cfg.Query.FuzzyThreshold,
		ForceRoute:      query.Route(*route),
	})
	engine.Start(ctx)
	defer engine.Close()
	engine.SetRecords(res.Records)

	out, err := engine.Run(ctx, query.Query{
		Search:  fs.Arg(1),
		SortKey: query.SortPath,
	})
	if err != nil {
		fatalf("%v", err)
	}

	for _, r := range out.Records {
		fmt.Printf("%-7s %-40s %s\n", r.Method, r.Path, r.Summary)
	}
	fmt.Fprintf(os.Stderr, "%d matches via %s route in %s\n", out.Total, out.Route, out.Took)
}
