package ui

import "github.com/charmbracelet/lipgloss"

// Shared styles, GitHub-dark palette like the rest of the app
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#58a6ff")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	bucketStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d29922")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9")).
			Background(lipgloss.Color("#21262d")).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9"))

	deprecatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Strikethrough(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#484f58"))
)

// methodColors give each HTTP method a stable accent
var methodColors = map[string]lipgloss.Style{
	"GET":    lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950")).Bold(true),
	"POST":   lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Bold(true),
	"PUT":    lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922")).Bold(true),
	"PATCH":  lipgloss.NewStyle().Foreground(lipgloss.Color("#bc8cff")).Bold(true),
	"DELETE": lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149")).Bold(true),
}

func methodStyle(method string) lipgloss.Style {
	if s, ok := methodColors[method]; ok {
		return s
	}
	return rowStyle
}
