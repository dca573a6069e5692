package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar represents a styled progress bar
type ProgressBar struct {
	progress progress.Model
	current  int
	total    int
	label    string
	mu       sync.Mutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total int, label string) *ProgressBar {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	p.FullColor = string(ColorPrimary)
	p.EmptyColor = string(ColorMuted)

	return &ProgressBar{
		progress: p,
		total:    total,
		label:    label,
	}
}

// Increment increments the progress
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.current < pb.total {
		pb.current++
	}
}

// SetCurrent sets the current value
func (pb *ProgressBar) SetCurrent(n int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = n
}

// Current returns the current value
func (pb *ProgressBar) Current() int {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.current
}

// View returns the rendered progress bar
func (pb *ProgressBar) View() string {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	percent := 0.0
	if pb.total > 0 {
		percent = float64(pb.current) / float64(pb.total)
	}

	bar := pb.progress.ViewAs(percent)
	countStr := CountStyle.Render(fmt.Sprintf("%d/%d", pb.current, pb.total))

	return fmt.Sprintf("%s %s %s", InfoStyle.Render(pb.label), bar, countStr)
}

// OperationSummary counts the outcome of a batch of file operations
type OperationSummary struct {
	Uploaded   int
	Downloaded int
	Deleted    int
	Skipped    int
	Errors     int
	Bytes      uint64
}

// View returns the formatted summary
func (s *OperationSummary) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(IconCloud+" Operation Summary") + "\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n\n")

	if s.Uploaded > 0 {
		sb.WriteString(fmt.Sprintf("  %s Files uploaded:     %s\n",
			IconUpload, RenderCount(s.Uploaded)))
	}

	if s.Downloaded > 0 {
		sb.WriteString(fmt.Sprintf("  %s Files downloaded:   %s\n",
			IconDownload, RenderCount(s.Downloaded)))
	}

	if s.Deleted > 0 {
		sb.WriteString(fmt.Sprintf("  %s Paths deleted:      %s\n",
			IconDelete, RenderCount(s.Deleted)))
	}

	if s.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("  %s Skipped:            %s\n",
			IconWarning, WarningStyle.Render(fmt.Sprintf("%d", s.Skipped))))
	}

	if s.Bytes > 0 {
		sb.WriteString(fmt.Sprintf("  %s Transferred:        %s\n",
			IconDot, CountStyle.Render(FormatSize(s.Bytes))))
	}

	if s.Errors > 0 {
		sb.WriteString(fmt.Sprintf("  %s Errors:             %s\n",
			IconError, ErrorStyle.Render(fmt.Sprintf("%d", s.Errors))))
	}

	sb.WriteString("\n" + strings.Repeat("─", 40))

	return BoxStyle.Render(sb.String())
}

// FileTable displays a styled table of files
type FileTable struct {
	Headers []string
	Rows    [][]string
	styles  []lipgloss.Style
}

// NewFileTable creates a new file table
func NewFileTable(headers []string) *FileTable {
	return &FileTable{
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table
func (t *FileTable) AddRow(row ...string) {
	t.AddStyledRow(lipgloss.NewStyle(), row...)
}

// AddStyledRow adds a row rendered with style
func (t *FileTable) AddStyledRow(style lipgloss.Style, row ...string) {
	t.Rows = append(t.Rows, row)
	t.styles = append(t.styles, style)
}

// View renders the table
func (t *FileTable) View() string {
	if len(t.Rows) == 0 {
		return MutedStyle.Render("(empty folder)")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], min(lipgloss.Width(cell), 50)) // Cap at 50 chars
			}
		}
	}

	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var headerCells []string
	for i, h := range t.Headers {
		headerCells = append(headerCells, lipgloss.NewStyle().
			Width(widths[i]).
			Render(h))
	}
	sb.WriteString(headerStyle.Render(strings.Join(headerCells, "  ")))
	sb.WriteString("\n")

	for r, row := range t.Rows {
		style := lipgloss.NewStyle()
		if r < len(t.styles) {
			style = t.styles[r]
		}
		var cells []string
		for i, cell := range row {
			if i < len(widths) {
				displayCell := cell
				if runes := []rune(cell); len(runes) > widths[i] {
					displayCell = string(runes[:widths[i]-3]) + "..."
				}
				cells = append(cells, style.
					Width(widths[i]).
					Render(displayCell))
			}
		}
		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString("\n")
	}

	return sb.String()
}
