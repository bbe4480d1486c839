// Package ui is the Bubble Tea shell around the exploration pipeline.
// It owns user input and painting only: parsing, querying and window
// math all happen in the core packages, and this model consumes their
// messages and read-only views.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/config"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/query"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/spec"
	"github.com/RyanCardin15/OpenAPI-Spec-Master-sub001/internal/window"
)

// DensityMode controls rows-per-item
type DensityMode int

const (
	DensityComfortable DensityMode = iota // two lines per endpoint
	DensityCompact                        // one line per endpoint
)

func (d DensityMode) lines() float64 {
	if d == DensityCompact {
		return 1
	}
	return 2
}

// rowKind discriminates flattened list rows
type rowKind int

const (
	rowBucket rowKind = iota
	rowRecord
)

// row is one renderable line group: either a bucket header or a record
type row struct {
	kind   rowKind
	bucket string
	count  int
	rec    spec.EndpointRecord
}

// chromeLines is the vertical space used outside the list: header,
// search bar, footer.
const chromeLines = 5

// Model is the exploration view
type Model struct {
	engine     *query.Engine
	cfg        *config.Config
	sourceName string

	loading   bool
	spinner   spinner.Model
	pct       float64
	stageMsg  string
	statusMsg string
	loadErr   error

	meta     *spec.Metadata
	streamed int // records streamed so far while parsing

	qry        query.Query
	gen        query.Generation
	result     query.Result
	haveResult bool

	rows    []row
	win     *window.Window
	cursor  int
	density DensityMode

	search      textinput.Model
	searchFocus bool
	palette     Palette
	showHelp    bool

	width  int
	height int
}

// NewModel creates the exploration model around a started engine.
func NewModel(engine *query.Engine, cfg *config.Config, sourceName string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))

	ti := textinput.New()
	ti.Placeholder = "Search path, summary, tags..."
	ti.Prompt = "/ "
	ti.CharLimit = 128

	density := DensityComfortable
	if cfg.UI.DensityMode == "compact" {
		density = DensityCompact
	}

	win := window.New(0, 0,
		window.WithUniformHeight(density.lines()),
		window.WithOverscan(cfg.UI.Overscan),
		window.WithThrottle(time.Duration(cfg.UI.ScrollThrottleMs)*time.Millisecond),
	)

	return Model{
		engine:     engine,
		cfg:        cfg,
		sourceName: sourceName,
		loading:    true,
		spinner:    s,
		search:     ti,
		palette:    NewPalette(),
		density:    density,
		win:        win,
		qry:        query.Query{SortKey: query.SortPath},
	}
}

// Init starts the spinner and the animation frame loop
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, frame())
}

func frame() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(msg.Width)
		m.search.Width = msg.Width - 8
		m.win.SetViewportHeight(float64(msg.Height - chromeLines))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ParseProgressMsg:
		m.pct = msg.Pct
		m.stageMsg = string(msg.Stage)
		m.statusMsg = msg.Message
		return m, nil

	case RecordsStreamedMsg:
		m.streamed += len(msg.Records)
		return m, nil

	case ParseDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.meta = &msg.Result.Metadata
		m.gen = m.engine.Submit(m.qry)
		return m, nil

	case QueryResultMsg:
		// The engine only surfaces fresh generations; guard anyway so
		// a queued older delivery cannot roll the view back.
		if msg.Result.Generation < m.gen {
			return m, nil
		}
		if msg.Result.Err != nil {
			m.loadErr = msg.Result.Err
			return m, nil
		}
		m.result = msg.Result
		m.haveResult = true
		m.rows = flattenRows(m.result)
		m.win.SetCount(len(m.rows))
		if m.cursor > len(m.rows)-1 {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case FrameMsg:
		m.win.Tick()
		return m, frame()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Palette swallows keys while active
	if m.palette.IsActive() {
		var cmd tea.Cmd
		var chosen string
		m.palette, cmd, chosen = m.palette.Update(msg)
		if chosen != "" {
			return m.dispatchCommand(chosen)
		}
		return m, cmd
	}

	// Search input swallows keys while focused
	if m.searchFocus {
		switch msg.String() {
		case "esc":
			m.searchFocus = false
			m.search.Blur()
			m.search.SetValue("")
			return m.resubmit("")
		case "enter":
			m.searchFocus = false
			m.search.Blur()
			return m, nil
		}
		old := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != old {
			model, sub := m.resubmit(m.search.Value())
			return model, tea.Batch(cmd, sub)
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key dismisses the overlay.
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "/":
		m.searchFocus = true
		return m, m.search.Focus()
	case ":", "ctrl+k":
		return m, m.palette.Activate()
	case "g":
		return m.cycleGroup()
	case "s":
		return m.cycleSort()
	case "d":
		m.qry.Filters.Deprecated = (m.qry.Filters.Deprecated + 1) % 3
		return m.resubmit(m.search.Value())
	case "v":
		return m.toggleDensity()
	case "up", "k":
		return m.moveCursor(-1)
	case "down", "j":
		return m.moveCursor(1)
	case "pgup":
		return m.moveCursor(-m.pageSize())
	case "pgdown":
		return m.moveCursor(m.pageSize())
	case "home":
		m.cursor = 0
		m.win.ScrollToTop()
		return m, nil
	case "end", "G":
		m.cursor = len(m.rows) - 1
		m.win.ScrollToIndex(m.cursor, true)
		return m, nil
	}
	return m, nil
}

func (m Model) dispatchCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case "group none":
		m.qry.GroupBy = query.GroupNone
	case "group tag":
		m.qry.GroupBy = query.GroupTag
	case "group method":
		m.qry.GroupBy = query.GroupMethod
	case "group path":
		m.qry.GroupBy = query.GroupPathSegment
	case "sort":
		return m.cycleSort()
	case "deprecated":
		m.qry.Filters.Deprecated = (m.qry.Filters.Deprecated + 1) % 3
	case "density", "compact", "comfortable":
		return m.toggleDensity()
	case "clear":
		m.qry.Filters = query.Filters{}
		m.search.SetValue("")
	case "top":
		m.cursor = 0
		m.win.ScrollToTop()
		return m, nil
	case "help":
		m.showHelp = true
		return m, nil
	case "quit":
		return m, tea.Quit
	}
	return m.resubmit(m.search.Value())
}

func (m Model) cycleGroup() (tea.Model, tea.Cmd) {
	order := []query.GroupBy{query.GroupNone, query.GroupTag, query.GroupMethod, query.GroupPathSegment}
	for i, g := range order {
		if m.qry.GroupBy == g || (m.qry.GroupBy == "" && g == query.GroupNone) {
			m.qry.GroupBy = order[(i+1)%len(order)]
			break
		}
	}
	return m.resubmit(m.search.Value())
}

func (m Model) cycleSort() (tea.Model, tea.Cmd) {
	order := []query.SortKey{query.SortPath, query.SortMethod, query.SortSummary, query.SortComplexity}
	for i, k := range order {
		if m.qry.SortKey == k {
			m.qry.SortKey = order[(i+1)%len(order)]
			break
		}
	}
	return m.resubmit(m.search.Value())
}

func (m Model) toggleDensity() (tea.Model, tea.Cmd) {
	if m.density == DensityComfortable {
		m.density = DensityCompact
	} else {
		m.density = DensityComfortable
	}
	// Row height changed: rebuild the window over the same rows
	m.win = window.New(len(m.rows), float64(m.height-chromeLines),
		window.WithUniformHeight(m.density.lines()),
		window.WithOverscan(m.cfg.UI.Overscan),
		window.WithThrottle(time.Duration(m.cfg.UI.ScrollThrottleMs)*time.Millisecond),
	)
	m.win.ScrollToIndex(m.cursor, false)
	return m, nil
}

func (m Model) resubmit(search string) (tea.Model, tea.Cmd) {
	m.qry.Search = search
	m.gen = m.engine.Submit(m.qry)
	return m, nil
}

func (m Model) pageSize() int {
	lines := int(m.density.lines())
	if lines == 0 {
		lines = 1
	}
	return (m.height - chromeLines) / lines
}

func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		return m, nil
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}

	// Keep the cursor inside the viewport, smooth for page jumps
	start, end := m.win.Range()
	if m.cursor < start || m.cursor > end {
		m.win.ScrollToIndex(m.cursor, delta > 1 || delta < -1)
	}
	return m, nil
}

// flattenRows turns grouped results into one scrollable row list. The
// lone "All" bucket renders without a header.
func flattenRows(res query.Result) []row {
	if len(res.Buckets) == 1 && res.Buckets[0].Name == query.AllBucket {
		rows := make([]row, 0, len(res.Records))
		for _, r := range res.Records {
			rows = append(rows, row{kind: rowRecord, rec: r})
		}
		return rows
	}
	var rows []row
	for _, b := range res.Buckets {
		rows = append(rows, row{kind: rowBucket, bucket: b.Name, count: len(b.Records)})
		for _, r := range b.Records {
			rows = append(rows, row{kind: rowRecord, rec: r})
		}
	}
	return rows
}

// View renders the model
func (m Model) View() string {
	if m.loadErr != nil {
		return errorStyle.Render("✗ "+m.loadErr.Error()) + "\n\n" +
			dimStyle.Render("press q to quit")
	}
	if m.loading {
		return m.loadingView()
	}
	if m.palette.IsActive() {
		return m.palette.View()
	}
	if m.showHelp {
		return m.helpView()
	}
	return m.browseView()
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Keys") + "\n\n")
	for _, c := range DefaultCommands() {
		if c.Key == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-6s %s\n", c.Key, dimStyle.Render(c.Description)))
	}
	b.WriteString("\n" + dimStyle.Render("press any key to return"))
	return b.String()
}

func (m Model) loadingView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(headerStyle.Render(" Loading "+m.sourceName) + "\n\n")
	b.WriteString(fmt.Sprintf("  %5.1f%%  %s\n", m.pct, m.stageMsg))
	if m.statusMsg != "" {
		b.WriteString("  " + dimStyle.Render(m.statusMsg) + "\n")
	}
	if m.streamed > 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d endpoints extracted so far", m.streamed)) + "\n")
	}
	return b.String()
}

func (m Model) browseView() string {
	var b strings.Builder

	// Header: document title and counters
	title := m.sourceName
	if m.meta != nil && m.meta.Title != "" {
		title = fmt.Sprintf("%s %s", m.meta.Title, m.meta.Version)
	}
	header := headerStyle.Render(title)
	if m.meta != nil {
		header += dimStyle.Render(fmt.Sprintf("  %d endpoints · %d schemas · %s",
			m.meta.EndpointCount, m.meta.SchemaCount, humanize.Bytes(uint64(m.meta.BytesProcessed))))
	}
	b.WriteString(header + "\n")

	// Search bar
	b.WriteString(m.search.View() + "\n")

	// Windowed list: render only what the window says is visible
	visible := m.win.Visible()
	skipDetail := m.win.IsScrolling() && m.density == DensityComfortable
	for _, v := range visible {
		if v.Index >= len(m.rows) {
			break
		}
		b.WriteString(m.renderRow(m.rows[v.Index], v.Index == m.cursor, skipDetail))
	}

	// Footer
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) renderRow(r row, selected bool, skipDetail bool) string {
	if r.kind == rowBucket {
		line := bucketStyle.Render(fmt.Sprintf("▾ %s", r.bucket)) +
			dimStyle.Render(fmt.Sprintf(" (%d)", r.count))
		if m.density == DensityComfortable {
			return line + "\n\n"
		}
		return line + "\n"
	}

	rec := r.rec
	pathStyle := rowStyle
	if rec.Deprecated {
		pathStyle = deprecatedStyle
	}
	line := fmt.Sprintf("%s %s",
		methodStyle(rec.Method).Render(fmt.Sprintf("%-7s", rec.Method)),
		pathStyle.Render(rec.Path))
	if selected {
		line = selectedStyle.Render("▸ ") + line
	} else {
		line = "  " + line
	}

	if m.density == DensityCompact {
		return line + "\n"
	}

	// Second line: summary and tags, skipped while actively scrolling
	detail := ""
	if !skipDetail {
		detail = rec.Summary
		if len(rec.Tags) > 0 {
			detail += "  [" + strings.Join(rec.Tags, ", ") + "]"
		}
		detail += "  " + string(rec.Complexity)
	}
	return line + "\n" + dimStyle.Render("          "+detail) + "\n"
}

func (m Model) footer() string {
	if !m.haveResult {
		return statusStyle.Render("querying...")
	}
	progress := int(m.win.ScrollProgress() * 100)
	parts := []string{
		fmt.Sprintf("%d shown", m.result.Total),
		fmt.Sprintf("route %s", m.result.Route),
		fmt.Sprintf("%.1fms", float64(m.result.Took.Microseconds())/1000),
		fmt.Sprintf("group %s", groupLabel(m.qry.GroupBy)),
		fmt.Sprintf("sort %s", m.qry.SortKey),
		fmt.Sprintf("%d%%", progress),
	}
	return statusStyle.Render(strings.Join(parts, "  ·  "))
}

func groupLabel(g query.GroupBy) string {
	if g == "" {
		return string(query.GroupNone)
	}
	return string(g)
}
