package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	tags := fs.Bool("tags", false, "Include per-tag endpoint counts")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fatalf("stats: need a file or URL")
	}

	res, err := loadResult(context.Background(), fs.Arg(0), mustConfig())
	if err != nil {
		fatalf("%v", err)
	}

	meta := res.Metadata
	fmt.Printf("Title:        %s %s\n", meta.Title, meta.Version)
	fmt.Printf("Endpoints:    %d\n", meta.EndpointCount)
	fmt.Printf("Schemas:      %d\n", meta.SchemaCount)
	fmt.Printf("Processed:    %s in %d chunks (%s)\n",
		humanize.Bytes(uint64(meta.BytesProcessed)), meta.ChunksProcessed, meta.ParseTime)

	methods := map[string]int{}
	complexity := map[spec.Complexity]int{}
	deprecated := 0
	tagCounts := map[string]int{}
	for _, r := range res.Records {
		methods[r.Method]++
		complexity[r.Complexity]++
		if r.Deprecated {
			deprecated++
		}
		for _, t := range r.Tags {
			tagCounts[t]++
		}
	}

	fmt.Printf("Deprecated:   %d\n", deprecated)

	fmt.Println("\nMethods:")
	for _, m := range sortedKeys(methods) {
		fmt.Printf("  %-8s %d\n", m, methods[m])
	}

	fmt.Println("\nComplexity:")
	for _, c := range []spec.Complexity{spec.ComplexityLow, spec.ComplexityMedium, spec.ComplexityHigh} {
		fmt.Printf("  %-8s %d\n", c, complexity[c])
	}

	if *tags {
		fmt.Printf("\nTags (%d):\n", len(tagCounts))
		for _, t := range sortedKeys(tagCounts) {
			fmt.Printf("  %-24s %d\n", t, tagCounts[t])
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
