package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/config"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/parse"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
)

func testModel() Model {
	engine := query.NewEngine(query.Options{WorkerThreshold: 100})
	m := NewModel(engine, config.DefaultConfig(), "petstore.json")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func testResult(n int) query.Result {
	records := make([]spec.EndpointRecord, n)
	for i := range records {
		records[i] = spec.EndpointRecord{Method: "GET", Path: "/items", Summary: "List items"}
	}
	return query.Result{
		Records:    records,
		Buckets:    []query.Bucket{{Name: query.AllBucket, Records: records}},
		Total:      n,
		Generation: 1,
		Route:      query.RouteInline,
	}
}

func TestModelStartsLoading(t *testing.T) {
	m := testModel()
	if !m.loading {
		t.Fatal("fresh model should be loading")
	}
	view := m.View()
	if view == "" {
		t.Fatal("loading view is empty")
	}
}

func TestParseProgressUpdatesLoadingView(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(ParseProgressMsg{Pct: 42.5, Stage: parse.StageDecoding, Message: "12 kB of 80 kB"})
	m = updated.(Model)
	if m.pct != 42.5 {
		t.Errorf("pct = %f, want 42.5", m.pct)
	}
}

func TestParseDoneSubmitsInitialQuery(t *testing.T) {
	m := testModel()
	m.engine.SetRecords([]spec.EndpointRecord{{Method: "GET", Path: "/items"}})

	updated, _ := m.Update(ParseDoneMsg{Result: &parse.Result{
		Metadata: spec.Metadata{Title: "Petstore", Version: "1.0", EndpointCount: 1},
	}})
	m = updated.(Model)

	if m.loading {
		t.Error("model should leave loading after ParseDoneMsg")
	}
	if m.gen == 0 {
		t.Error("no query was submitted")
	}
	if m.meta == nil || m.meta.Title != "Petstore" {
		t.Errorf("meta = %+v", m.meta)
	}
}

func TestParseErrorShowsInView(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(ParseDoneMsg{Err: &parse.MemoryExceededError{Budget: 100, Retained: 200}})
	m = updated.(Model)
	if m.loadErr == nil {
		t.Fatal("error not recorded")
	}
	if m.View() == "" {
		t.Fatal("error view is empty")
	}
}

func TestQueryResultBuildsRows(t *testing.T) {
	m := testModel()
	m.loading = false
	m.gen = 1

	updated, _ := m.Update(QueryResultMsg{Result: testResult(5)})
	m = updated.(Model)

	if len(m.rows) != 5 {
		t.Fatalf("rows = %d, want 5 (single All bucket has no header)", len(m.rows))
	}
	if m.win.Count() != 5 {
		t.Errorf("window count = %d, want 5", m.win.Count())
	}
}

func TestStaleQueryResultIgnored(t *testing.T) {
	m := testModel()
	m.loading = false
	m.gen = 10

	res := testResult(5)
	res.Generation = 3
	updated, _ := m.Update(QueryResultMsg{Result: res})
	m = updated.(Model)
	if len(m.rows) != 0 {
		t.Error("stale generation must not repaint the list")
	}
}

func TestFlattenRowsWithBuckets(t *testing.T) {
	res := query.Result{
		Buckets: []query.Bucket{
			{Name: "pets", Records: []spec.EndpointRecord{{Method: "GET", Path: "/pets"}}},
			{Name: "users", Records: []spec.EndpointRecord{
				{Method: "GET", Path: "/users"},
				{Method: "POST", Path: "/users"},
			}},
		},
	}
	rows := flattenRows(res)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 2 headers + 3 records", len(rows))
	}
	if rows[0].kind != rowBucket || rows[0].bucket != "pets" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].kind != rowRecord {
		t.Errorf("row 1 should be a record")
	}
	if rows[2].kind != rowBucket || rows[2].count != 2 {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func TestGroupCycleResubmits(t *testing.T) {
	m := testModel()
	m.loading = false
	before := m.gen

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	m = updated.(Model)
	if m.qry.GroupBy != query.GroupTag {
		t.Errorf("GroupBy = %s, want tag after first cycle", m.qry.GroupBy)
	}
	if m.gen == before {
		t.Error("group change should submit a fresh query")
	}
}

func TestDeprecatedTriStateCycles(t *testing.T) {
	m := testModel()
	m.loading = false

	states := []query.TriState{query.TriOnly, query.TriExclude, query.TriAny}
	for _, want := range states {
		updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
		m = updated.(Model)
		if m.qry.Filters.Deprecated != want {
			t.Fatalf("Deprecated = %d, want %d", m.qry.Filters.Deprecated, want)
		}
	}
}

func TestDensityToggleKeepsCursorVisible(t *testing.T) {
	m := testModel()
	m.loading = false
	updated, _ := m.Update(QueryResultMsg{Result: func() query.Result {
		r := testResult(200)
		r.Generation = 0
		return r
	}()})
	m = updated.(Model)
	m.cursor = 150

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	m = updated.(Model)
	if m.density != DensityCompact {
		t.Errorf("density = %d, want compact", m.density)
	}
	start, end := m.win.Range()
	if m.cursor < start || m.cursor > end {
		t.Errorf("cursor %d outside window (%d, %d) after density change", m.cursor, start, end)
	}
}

func TestCursorNavigationScrolls(t *testing.T) {
	m := testModel()
	m.loading = false
	updated, _ := m.Update(QueryResultMsg{Result: func() query.Result {
		r := testResult(500)
		r.Generation = 0
		return r
	}()})
	m = updated.(Model)

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnd})
	m = updated.(Model)
	if m.cursor != 499 {
		t.Errorf("cursor = %d, want 499 after End", m.cursor)
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyHome})
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after Home", m.cursor)
	}
	if m.win.ScrollTop() != 0 {
		t.Errorf("scrollTop = %f, want 0 after Home", m.win.ScrollTop())
	}
}

func TestSearchFocusSwallowsKeys(t *testing.T) {
	m := testModel()
	m.loading = false

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(Model)
	if !m.searchFocus {
		t.Fatal("/ should focus the search input")
	}

	// 'q' must type into the search box, not quit.
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	if m.search.Value() != "q" {
		t.Errorf("search value = %q, want 'q'", m.search.Value())
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.searchFocus {
		t.Error("esc should blur the search input")
	}
	if m.search.Value() != "" {
		t.Error("esc should clear the search")
	}
}

func TestBrowseViewRenders(t *testing.T) {
	m := testModel()
	m.loading = false
	m.meta = &spec.Metadata{Title: "Petstore", Version: "1.0", EndpointCount: 5}
	updated, _ := m.Update(QueryResultMsg{Result: func() query.Result {
		r := testResult(5)
		r.Generation = 0
		return r
	}()})
	m = updated.(Model)

	view := m.View()
	if view == "" {
		t.Fatal("browse view is empty")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := testModel()
	m.loading = false

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	if !m.showHelp {
		t.Fatal("'?' should open the help overlay")
	}
	if !strings.Contains(m.View(), "Keys") {
		t.Error("help view should list key bindings")
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	if m.showHelp {
		t.Error("any key should dismiss the help overlay")
	}
}
