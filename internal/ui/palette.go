package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Command represents an available palette command
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Key         string // shortcut key if any
}

// DefaultCommands returns the built-in commands
func DefaultCommands() []Command {
	return []Command{
		{Name: "group none", Aliases: []string{"ungroup"}, Description: "Single bucket, collection order", Key: "g"},
		{Name: "group tag", Description: "Bucket endpoints by first tag"},
		{Name: "group method", Description: "Bucket endpoints by HTTP method"},
		{Name: "group path", Description: "Bucket endpoints by top path segment"},
		{Name: "sort", Aliases: []string{"order"}, Description: "Cycle sort key", Key: "s"},
		{Name: "deprecated", Description: "Cycle deprecated filter (any/only/exclude)", Key: "d"},
		{Name: "density", Aliases: []string{"compact", "comfortable"}, Description: "Toggle compact/comfortable view", Key: "v"},
		{Name: "clear", Aliases: []string{"reset"}, Description: "Clear search and filters", Key: "esc"},
		{Name: "top", Description: "Scroll to top", Key: "home"},
		{Name: "help", Description: "Show help", Key: "?"},
		{Name: "quit", Aliases: []string{"exit", "q"}, Description: "Exit Spec Master", Key: "q"},
	}
}

// paletteSource adapts commands (name plus aliases) to fuzzy.Source
type paletteSource []Command

func (s paletteSource) String(i int) string {
	c := s[i]
	if len(c.Aliases) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Aliases, " ")
}

func (s paletteSource) Len() int { return len(s) }

// Palette is a command palette with fuzzy matching
type Palette struct {
	input    textinput.Model
	commands []Command
	filtered []Command
	cursor   int
	width    int
	active   bool
}

// NewPalette creates a new command palette
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Bold(true)
	ti.CharLimit = 32

	return Palette{
		input:    ti,
		commands: DefaultCommands(),
		filtered: DefaultCommands(),
	}
}

// Activate shows the palette
func (p *Palette) Activate() tea.Cmd {
	p.active = true
	p.input.SetValue("")
	p.input.Focus()
	p.filtered = p.commands
	p.cursor = 0
	return textinput.Blink
}

// Deactivate hides the palette
func (p *Palette) Deactivate() {
	p.active = false
	p.input.Blur()
}

// IsActive returns whether palette is showing
func (p Palette) IsActive() bool {
	return p.active
}

// SetWidth sets the palette width
func (p *Palette) SetWidth(w int) {
	p.width = w
	p.input.Width = w - 10
}

// SelectedCommand returns the currently selected command name
func (p Palette) SelectedCommand() string {
	if p.cursor >= 0 && p.cursor < len(p.filtered) {
		return p.filtered[p.cursor].Name
	}
	return ""
}

// Update handles input. The third return value is the chosen command
// name when the user confirms a selection.
func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd, string) {
	if !p.active {
		return p, nil, ""
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.Deactivate()
			return p, nil, ""

		case "enter":
			cmd := p.SelectedCommand()
			p.Deactivate()
			return p, nil, cmd

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, ""

		case "down", "ctrl+n":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
			return p, nil, ""

		case "tab":
			if len(p.filtered) > 0 {
				p.input.SetValue(p.filtered[p.cursor].Name)
				p.input.CursorEnd()
			}
			return p, nil, ""
		}
	}

	oldValue := p.input.Value()

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	if p.input.Value() != oldValue {
		p.filter()
	}

	return p, cmd, ""
}

func (p *Palette) filter() {
	q := strings.TrimSpace(p.input.Value())
	if q == "" {
		p.filtered = p.commands
		p.cursor = 0
		return
	}

	matches := fuzzy.FindFrom(q, paletteSource(p.commands))
	filtered := make([]Command, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, p.commands[m.Index])
	}

	p.filtered = filtered
	if p.cursor >= len(p.filtered) {
		p.cursor = 0
	}
}

// View renders the palette
func (p Palette) View() string {
	if !p.active {
		return ""
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#30363d")).
		Padding(0, 1).
		Width(p.width - 4)

	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")

	for i, c := range p.filtered {
		line := c.Name
		if c.Description != "" {
			line += "  " + dimStyle.Render(c.Description)
		}
		if c.Key != "" {
			line += "  " + statusStyle.Render("["+c.Key+"]")
		}
		if i == p.cursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(p.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no matching commands"))
	}

	return containerStyle.Render(b.String())
}
