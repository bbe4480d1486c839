package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/work"
)

// bigCollection builds n records with predictable paths.
func bigCollection(n int) []spec.EndpointRecord {
	records := make([]spec.EndpointRecord, n)
	for i := range records {
		records[i] = spec.EndpointRecord{
			Method:     "GET",
			Path:       fmt.Sprintf("/resources/%04d", i),
			Summary:    fmt.Sprintf("Resource %d", i),
			Complexity: spec.ComplexityLow,
		}
	}
	return records
}

func TestRunRoutesInlineBelowThreshold(t *testing.T) {
	e := NewEngine(Options{WorkerThreshold: 100})
	e.Start(context.Background())
	defer e.Close()
	e.SetRecords(bigCollection(10))

	res, err := e.Run(context.Background(), Query{Search: "resource"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Route != RouteInline {
		t.Errorf("route = %s, want %s for 10 records", res.Route, RouteInline)
	}
	if res.Total != 10 {
		t.Errorf("total = %d, want 10", res.Total)
	}
}

func TestRunRoutesWorkerAtThreshold(t *testing.T) {
	e := NewEngine(Options{WorkerThreshold: 100})
	e.Start(context.Background())
	defer e.Close()
	e.SetRecords(bigCollection(1000))

	res, err := e.Run(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Route != RouteWorker {
		t.Errorf("route = %s, want %s for 1000 records", res.Route, RouteWorker)
	}
	if res.Total != 1000 {
		t.Errorf("total = %d, want 1000", res.Total)
	}
}

func TestEveryWorkerSubmissionSurfaces(t *testing.T) {
	// A tiny collection finishes on the worker almost instantly, so
	// the terminal response can beat Submit's return. Each submission
	// must still surface: a lost response would hang Run on its
	// generation until the deadline.
	e := NewEngine(Options{WorkerThreshold: 100, ForceRoute: RouteWorker})
	e.Start(context.Background())
	defer e.Close()
	e.SetRecords(bigCollection(3))

	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		res, err := e.Run(ctx, Query{})
		cancel()
		if err != nil {
			t.Fatalf("submission %d never surfaced: %v", i, err)
		}
		if res.Route != RouteWorker {
			t.Fatalf("submission %d route = %s, want %s", i, res.Route, RouteWorker)
		}
		if res.Total != 3 {
			t.Fatalf("submission %d total = %d, want 3", i, res.Total)
		}
	}
}

func TestSubmitFallsBackInlineWhenWorkerDown(t *testing.T) {
	// Never started: the worker rejects, and Submit must compute
	// inline instead of failing.
	e := NewEngine(Options{WorkerThreshold: 100, ForceRoute: RouteWorker})
	e.SetRecords(bigCollection(500))

	gen := e.Submit(Query{Search: "0007"})

	select {
	case res := <-e.Results():
		if res.Generation != gen {
			t.Errorf("generation = %d, want %d", res.Generation, gen)
		}
		if res.Route != RouteInline {
			t.Errorf("route = %s, want inline fallback", res.Route)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	default:
		t.Fatal("inline fallback should deliver synchronously")
	}
}

func TestResultsSurfaceOnlyFreshGenerations(t *testing.T) {
	e := NewEngine(Options{WorkerThreshold: 100, ForceRoute: RouteWorker})
	e.Start(context.Background())
	defer e.Close()
	e.SetRecords(bigCollection(1000))

	// Rapid-fire submissions, as if the user were typing.
	var last Generation
	for i := 0; i < 20; i++ {
		last = e.Submit(Query{Search: fmt.Sprintf("%04d", i)})
	}

	// Observed generations must be strictly increasing and end at the
	// freshest one. Superseded results never surface out of order.
	var seen []Generation
	deadline := time.After(10 * time.Second)
	for {
		select {
		case res := <-e.Results():
			if len(seen) > 0 && res.Generation <= seen[len(seen)-1] {
				t.Fatalf("generation %d arrived after %d", res.Generation, seen[len(seen)-1])
			}
			seen = append(seen, res.Generation)
			if res.Generation == last {
				return
			}
		case <-deadline:
			t.Fatalf("freshest generation %d never surfaced (saw %v)", last, seen)
		}
	}
}

func TestDeliverDropsStaleGeneration(t *testing.T) {
	e := NewEngine(Options{})
	e.mu.Lock()
	e.latest = 5
	e.mu.Unlock()

	e.deliver(Result{Generation: 3})

	select {
	case res := <-e.results:
		t.Fatalf("stale generation %d surfaced", res.Generation)
	default:
	}

	e.deliver(Result{Generation: 5})
	select {
	case res := <-e.results:
		if res.Generation != 5 {
			t.Errorf("generation = %d, want 5", res.Generation)
		}
	default:
		t.Fatal("fresh generation was not delivered")
	}
}

func TestDeliverDropsCanceledGeneration(t *testing.T) {
	e := NewEngine(Options{})
	e.mu.Lock()
	e.latest = 7
	e.mu.Unlock()
	e.Cancel(7)

	e.deliver(Result{Generation: 7})

	select {
	case <-e.results:
		t.Fatal("canceled generation surfaced")
	default:
	}
}

func TestDeliverDisplacesQueuedResults(t *testing.T) {
	e := NewEngine(Options{})

	// Fill the buffered channel beyond capacity; nothing may block and
	// the freshest result must still be retrievable.
	for gen := Generation(1); gen <= 20; gen++ {
		e.mu.Lock()
		e.latest = gen
		e.mu.Unlock()
		e.deliver(Result{Generation: gen})
	}

	var newest Generation
	for {
		select {
		case res := <-e.results:
			newest = res.Generation
			continue
		default:
		}
		break
	}
	if newest != 20 {
		t.Errorf("newest queued generation = %d, want 20", newest)
	}
}

func TestWorkerErrorRetriesInlineOnce(t *testing.T) {
	e := NewEngine(Options{})
	e.SetRecords(bigCollection(50))
	e.mu.Lock()
	gen := e.gen
	e.pending[99] = pendingQuery{gen: gen, q: Query{Search: "0001"}}
	e.mu.Unlock()

	e.handleResponse(work.Response{
		Kind: work.KindError,
		ID:   99,
		Err:  errors.New("worker exploded"),
	})

	select {
	case res := <-e.results:
		if res.Err != nil {
			t.Fatalf("inline retry should succeed, got %v", res.Err)
		}
		if res.Route != RouteInline {
			t.Errorf("route = %s, want inline retry", res.Route)
		}
		if res.Generation != gen {
			t.Errorf("generation = %d, want %d", res.Generation, gen)
		}
		if res.Total != 1 {
			t.Errorf("total = %d, want 1", res.Total)
		}
	default:
		t.Fatal("retry result never delivered")
	}
}

func TestSetRecordsStalesInFlightGenerations(t *testing.T) {
	e := NewEngine(Options{})
	e.SetRecords(bigCollection(10))
	e.mu.Lock()
	oldGen := e.gen
	e.mu.Unlock()

	e.SetRecords(bigCollection(20))

	e.deliver(Result{Generation: oldGen})
	select {
	case <-e.results:
		t.Fatal("result from before SetRecords surfaced")
	default:
	}

	if e.Size() != 20 {
		t.Errorf("Size = %d, want 20", e.Size())
	}
}

func TestExecutePipelineOrder(t *testing.T) {
	records := []spec.EndpointRecord{
		{Method: "POST", Path: "/users", Summary: "Create user", Tags: []string{"users"}},
		{Method: "GET", Path: "/users", Summary: "List users", Tags: []string{"users"}},
		{Method: "GET", Path: "/pets", Summary: "List pets", Tags: []string{"pets"}},
	}

	res := execute(records, Query{
		Search:  "users",
		Filters: Filters{Methods: []string{"GET", "POST"}},
		SortKey: SortMethod,
		GroupBy: GroupTag,
	}, 0.4, RouteInline)

	// Filter keeps all three, search drops /pets, sort puts GET first,
	// grouping yields one bucket.
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2", res.Total)
	}
	if res.Records[0].Method != "GET" || res.Records[1].Method != "POST" {
		t.Errorf("sort order: %v", paths(res.Records))
	}
	if len(res.Buckets) != 1 || res.Buckets[0].Name != "users" {
		t.Errorf("buckets: %v", bucketNames(res.Buckets))
	}
	if res.Took < 0 {
		t.Error("Took must be non-negative")
	}
}
