package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
)

func runEndpoints() {
	fs := flag.NewFlagSet("endpoints", flag.ExitOnError)
	method := fs.String("method", "", "Only this HTTP method (comma-separated for several)")
	tag := fs.String("tag", "", "Only endpoints carrying this tag")
	deprecated := fs.Bool("deprecated", false, "Only deprecated endpoints")
	group := fs.String("group", "", "Group output: tag, method or path")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatalf("endpoints: need a file or URL")
	}

	cfg := mustConfig()
	res, err := loadResult(context.Background(), fs.Arg(0), cfg)
	if err != nil {
		fatalf("%v", err)
	}

	q := query.Query{GroupBy: query.GroupBy(*group), SortKey: query.SortPath}
	if *method != "" {
		for _, m := range strings.Split(*method, ",") {
			q.Filters.Methods = append(q.Filters.Methods, strings.ToUpper(strings.TrimSpace(m)))
		}
	}
	if *tag != "" {
		q.Filters.Tags = []string{*tag}
	}
	if *deprecated {
		q.Filters.Deprecated = query.TriOnly
	}

	engine := query.NewEngine(query.Options{
		WorkerThreshold: cfg.Query.WorkerThreshold,
		FuzzyThreshold:  cfg.Query.FuzzyThreshold,
	})
	engine.SetRecords(res.Records)

	out, err := engine.Run(context.Background(), q)
	if err != nil {
		fatalf("%v", err)
	}

	for _, b := range out.Buckets {
		if b.Name != query.AllBucket {
			fmt.Printf("# %s\n", b.Name)
		}
		for _, r := range b.Records {
			mark := ""
			if r.Deprecated {
				mark = "  (deprecated)"
			}
			fmt.Printf("%-7s %s%s\n", r.Method, r.Path, mark)
		}
	}
	fmt.Fprintf(os.Stderr, "%d endpoints\n", out.Total)
}
