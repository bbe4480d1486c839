package work

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// collect drains responses for the given ID until a terminal arrives.
func collect(t *testing.T, w *Worker, id uint64) []Response {
	t.Helper()
	var got []Response
	deadline := time.After(5 * time.Second)
	for {
		select {
		case resp := <-w.Responses():
			if resp.ID != id {
				continue
			}
			got = append(got, resp)
			if resp.Terminal() {
				return got
			}
		case <-deadline:
			t.Fatalf("timed out waiting for terminal response for id %d", id)
		}
	}
}

func TestWorkerSuccess(t *testing.T) {
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		return req.Payload.(int) * 2, nil
	})
	w.Start(context.Background())
	defer w.Stop()

	id, err := w.Submit("double", 21)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got := collect(t, w, id)
	last := got[len(got)-1]
	if last.Kind != KindSuccess {
		t.Fatalf("terminal kind = %s, want %s", last.Kind, KindSuccess)
	}
	if last.Payload.(int) != 42 {
		t.Errorf("payload = %v, want 42", last.Payload)
	}
}

func TestWorkerProgressBeforeTerminal(t *testing.T) {
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		progress(0.25, "quarter")
		progress(0.75, "three quarters")
		return "done", nil
	})
	w.Start(context.Background())
	defer w.Stop()

	id, _ := w.Submit("job", nil)
	got := collect(t, w, id)

	if len(got) != 3 {
		t.Fatalf("got %d responses, want 2 progress + 1 terminal", len(got))
	}
	for i, resp := range got[:len(got)-1] {
		if resp.Kind != KindProgress {
			t.Errorf("response %d kind = %s, want progress", i, resp.Kind)
		}
		if resp.Terminal() {
			t.Errorf("progress response %d reports terminal", i)
		}
	}
	if !got[len(got)-1].Terminal() {
		t.Error("last response is not terminal")
	}
}

func TestWorkerErrorIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		return nil, boom
	})
	w.Start(context.Background())
	defer w.Stop()

	id, _ := w.Submit("job", nil)
	got := collect(t, w, id)
	last := got[len(got)-1]
	if last.Kind != KindError {
		t.Fatalf("kind = %s, want %s", last.Kind, KindError)
	}
	if !errors.Is(last.Err, boom) {
		t.Errorf("err = %v, want boom", last.Err)
	}
}

func TestWorkerPanicBecomesError(t *testing.T) {
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		panic("handler bug")
	})
	w.Start(context.Background())
	defer w.Stop()

	id, _ := w.Submit("job", nil)
	got := collect(t, w, id)
	if got[len(got)-1].Kind != KindError {
		t.Fatal("panic did not surface as an error response")
	}

	// The actor must survive the panic and serve the next request.
	id2, err := w.Submit("job", nil)
	if err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
	collect(t, w, id2)
}

func TestWorkerExactlyOneTerminalPerID(t *testing.T) {
	w := New("test", 8, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		progress(0.5, "half")
		return req.ID, nil
	})
	w.Start(context.Background())
	defer w.Stop()

	const n = 5
	ids := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		id, err := w.Submit("job", i)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids[id] = true
	}

	terminals := map[uint64]int{}
	deadline := time.After(5 * time.Second)
	for done := 0; done < n; {
		select {
		case resp := <-w.Responses():
			if resp.Terminal() {
				terminals[resp.ID]++
				done++
			}
		case <-deadline:
			t.Fatalf("timed out: %d of %d terminals", len(terminals), n)
		}
	}
	for id := range ids {
		if terminals[id] != 1 {
			t.Errorf("id %d: %d terminal responses, want exactly 1", id, terminals[id])
		}
	}
}

func TestSubmitNotRunning(t *testing.T) {
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		return nil, nil
	})
	if _, err := w.Submit("job", nil); !errors.Is(err, ErrNotRunning) {
		t.Errorf("err = %v, want ErrNotRunning", err)
	}

	w.Start(context.Background())
	w.Stop()
	if _, err := w.Submit("job", nil); !errors.Is(err, ErrNotRunning) {
		t.Errorf("after Stop: err = %v, want ErrNotRunning", err)
	}
}

func TestSubmitMailboxFull(t *testing.T) {
	block := make(chan struct{})
	var once sync.Once
	started := make(chan struct{})
	w := New("test", 2, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		once.Do(func() { close(started) })
		<-block
		return nil, nil
	})
	w.Start(context.Background())
	defer func() {
		close(block)
		w.Stop()
	}()

	// First request occupies the handler; wait for it to start so the
	// mailbox fills deterministically.
	if _, err := w.Submit("job", 0); err != nil {
		t.Fatalf("Submit 0: %v", err)
	}
	<-started

	// Two more fill the mailbox.
	for i := 1; i <= 2; i++ {
		if _, err := w.Submit("job", i); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	if _, err := w.Submit("job", 3); !errors.Is(err, ErrMailboxFull) {
		t.Errorf("err = %v, want ErrMailboxFull", err)
	}
}

func TestStartIdempotent(t *testing.T) {
	w := New("test", 4, func(ctx context.Context, req Request, progress func(float64, string)) (any, error) {
		return fmt.Sprintf("req-%d", req.ID), nil
	})
	ctx := context.Background()
	w.Start(ctx)
	w.Start(ctx) // no second goroutine
	defer w.Stop()

	id, err := w.Submit("job", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	collect(t, w, id)

	if !w.Running() {
		t.Error("worker should report running")
	}
}
