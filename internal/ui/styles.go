package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette - Monokai-inspired theme
var (
	ColorPrimary   = lipgloss.Color("#A6E22E") // Green
	ColorSecondary = lipgloss.Color("#66D9EF") // Cyan
	ColorAccent    = lipgloss.Color("#F92672") // Magenta/Pink
	ColorWarning   = lipgloss.Color("#FD971F") // Orange
	ColorError     = lipgloss.Color("#F92672") // Red/Pink
	ColorMuted     = lipgloss.Color("#75715E") // Gray
	ColorHighlight = lipgloss.Color("#E6DB74") // Yellow
	ColorWhite     = lipgloss.Color("#F8F8F2") // White
	ColorDark      = lipgloss.Color("#272822") // Dark background
)

// Base Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	// Section header
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted).
			MarginTop(1).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Local file path
	FilePathStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	// Remote path
	RemotePathStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	FolderStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	ArrowStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	DeleteStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Strikethrough(true)

	CountStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	BadgeInfo = lipgloss.NewStyle().
			Background(ColorSecondary).
			Foreground(ColorDark).
			Bold(true).
			Padding(0, 1)
)

// Icons
const (
	IconSuccess    = "✓"
	IconError      = "✗"
	IconWarning    = "⚠"
	IconInfo       = "ℹ"
	IconFile       = "📄"
	IconFolder     = "📁"
	IconCloud      = "☁"
	IconUpload     = "⬆"
	IconDownload   = "⬇"
	IconDelete     = "🗑️"
	IconArrowRight = "→"
	IconDot        = "•"
)

// Helper functions
func RenderSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess+" ") + msg
}

func RenderError(msg string) string {
	return ErrorStyle.Render(IconError+" ") + msg
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(IconWarning+" ") + msg
}

func RenderInfo(msg string) string {
	return InfoStyle.Render(IconInfo+" ") + msg
}

// RenderTransfer renders "from → to"
func RenderTransfer(from, to string) string {
	return FilePathStyle.Render(from) + " " +
		ArrowStyle.Render(IconArrowRight) + " " +
		RemotePathStyle.Render(to)
}

func RenderDelete(remote string) string {
	return DeleteStyle.Render(remote)
}

func RenderCount(count int) string {
	return CountStyle.Render(fmt.Sprintf("%d", count))
}

// FormatSize renders a byte count with a binary unit
func FormatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
