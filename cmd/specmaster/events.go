package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/events"
)

// eventRecord mirrors events.Event for JSON decoding. Decoding from
// JSONL rather than reusing the struct keeps this subcommand usable
// even if the event schema evolves.
type eventRecord struct {
	Time      time.Time `json:"t"`
	Level     string    `json:"level"`
	Kind      string    `json:"kind"`
	Comp      string    `json:"comp"`
	SessionID string    `json:"session_id"`
	Gen       uint64    `json:"gen"`
	Route     string    `json:"route"`
	Stage     string    `json:"stage"`
	Source    string    `json:"source"`
	Query     string    `json:"query"`
	Count     int       `json:"count"`
	DurMs     float64   `json:"dur_ms"`
	Err       string    `json:"err"`
	Msg       string    `json:"msg"`
}

// eventFilter selects which log lines the viewer prints.
type eventFilter struct {
	kindPrefix string
	minLevel   int
	hasLevel   bool
	session    string
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kindPrefix != "" && !strings.HasPrefix(ev.Kind, f.kindPrefix) {
		return false
	}
	if f.hasLevel && levelRank(ev.Level) < f.minLevel {
		return false
	}
	if f.session != "" && ev.SessionID != f.session {
		return false
	}
	return true
}

// levelRank orders severities for minimum-level filtering.
func levelRank(level string) int {
	switch level {
	case "warn":
		return 2
	case "error":
		return 3
	case "info":
		return 1
	default: // debug or unknown
		return 0
	}
}

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Follow mode (like tail -f)")
	kind := fs.String("kind", "", "Filter by event kind prefix (e.g. 'query')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	session := fs.String("session", "", "Filter by session ID")
	stats := fs.Bool("stats", false, "Print per-kind counts instead of lines")
	rawJSON := fs.Bool("json", false, "Output raw JSON lines")
	fs.Parse(os.Args[1:])

	logPath, err := events.DefaultPath()
	if err != nil {
		fatalf("%v", err)
	}
	f, err := os.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  No event log at %s; run the explorer first.\n", logPath)
		os.Exit(1)
	}
	defer f.Close()

	filter := eventFilter{kindPrefix: *kind, session: *session}
	if *level != "" {
		filter.hasLevel = true
		filter.minLevel = levelRank(*level)
	}

	if *stats {
		printEventStats(f, filter)
		return
	}

	emit := func(ev eventRecord, raw []byte) {
		if *rawJSON {
			fmt.Println(string(raw))
		} else {
			fmt.Println(formatEventLine(ev))
		}
	}

	for _, l := range tailMatching(f, *tail, filter) {
		emit(l.ev, l.raw)
	}
	if *follow {
		followEvents(f, filter, emit)
	}
}

// printEventStats aggregates the whole log into per-kind counts,
// like the in-process ring buffer's Stats but over the full file.
func printEventStats(f *os.File, filter eventFilter) {
	counts := map[string]int{}
	total := 0
	scanEvents(f, func(ev eventRecord, _ []byte) {
		if filter.match(ev) {
			counts[ev.Kind]++
			total++
		}
	})

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("%-20s %d\n", k, counts[k])
	}
	fmt.Printf("%-20s %d\n", "total", total)
}

func formatEventLine(ev eventRecord) string {
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s [%-5s] %-18s",
		ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)

	add := func(format string, args ...any) {
		b.WriteByte(' ')
		fmt.Fprintf(&b, format, args...)
	}
	if ev.Msg != "" {
		add("%s", ev.Msg)
	}
	if ev.Gen > 0 {
		add("gen=%d", ev.Gen)
	}
	if ev.Route != "" {
		add("route=%s", ev.Route)
	}
	if ev.Stage != "" {
		add("stage=%s", ev.Stage)
	}
	if ev.DurMs > 0 {
		add("(%sms)", trimFloat(ev.DurMs))
	}
	if ev.Count > 0 {
		add("n=%d", ev.Count)
	}
	if ev.Source != "" {
		add("src=%s", ev.Source)
	}
	if ev.Query != "" {
		add("q=%q", ev.Query)
	}
	if ev.Err != "" {
		add("err=%s", ev.Err)
	}
	return b.String()
}

// trimFloat renders a millisecond value with precision scaled to its
// magnitude: 234, 12.3, 0.45.
func trimFloat(ms float64) string {
	switch {
	case ms >= 100:
		return fmt.Sprintf("%.0f", ms)
	case ms >= 1:
		return fmt.Sprintf("%.1f", ms)
	default:
		return fmt.Sprintf("%.2f", ms)
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// scanEvents walks every decodable JSONL line in f.
func scanEvents(f *os.File, visit func(eventRecord, []byte)) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		visit(ev, raw)
	}
}

// tailMatching returns the last n matching lines of the file. The
// whole file is scanned; a ring of n keeps memory flat.
func tailMatching(f *os.File, n int, filter eventFilter) []parsedLine {
	if n <= 0 {
		return nil
	}
	ring := make([]parsedLine, 0, n)
	scanEvents(f, func(ev eventRecord, raw []byte) {
		if !filter.match(ev) {
			return
		}
		// The scanner reuses its buffer, so keep a copy.
		rawCopy := append([]byte(nil), raw...)
		if len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
			return
		}
		copy(ring, ring[1:])
		ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
	})
	return ring
}

// followEvents polls the file for appended lines from the current
// offset until interrupted.
func followEvents(f *os.File, filter eventFilter, emit func(eventRecord, []byte)) {
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}
		trimmed := []byte(strings.TrimRight(string(line), "\r\n"))
		if len(trimmed) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(trimmed, &ev) != nil {
			continue
		}
		if filter.match(ev) {
			emit(ev, trimmed)
		}
	}
}
