package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloud-filemanager/go/internal/types"
)

// Printer handles all console output with rich styling
type Printer struct {
	out     io.Writer
	verbose bool
	json    bool
}

// NewPrinter creates a new printer writing to out
func NewPrinter(out io.Writer, verbose, json bool) *Printer {
	return &Printer{
		out:     out,
		verbose: verbose,
		json:    json,
	}
}

// Banner prints the backend the command runs against
func (p *Printer) Banner(backend, configFile string) {
	if p.json {
		return
	}

	fmt.Fprintf(p.out, "%s %s\n",
		BadgeInfo.Render(IconCloud+" "+backend),
		SubtitleStyle.Render(configFile))
}

// Section prints a section header
func (p *Printer) Section(title string) {
	if p.json {
		return
	}

	fmt.Fprintln(p.out, SectionStyle.Render(title))
}

// PrintListing prints the children of a remote folder as a table
func (p *Printer) PrintListing(path string, listing types.Listing) {
	if p.json {
		return
	}
	if path == "" {
		path = "/"
	}

	p.Section(fmt.Sprintf("%s %s (%d)", IconFolder, path, len(listing)))

	headers := []string{"", "NAME", "SIZE", "MODIFIED"}
	if p.verbose {
		headers = append(headers, "REV")
	}
	table := NewFileTable(headers)

	for _, e := range listing.Sorted() {
		icon, name, size := IconFile, e.Name, FormatSize(e.Size)
		style := FilePathStyle
		if e.IsFolder() {
			icon, name, size, style = IconFolder, e.Name+"/", "-", FolderStyle
		}
		modified := "-"
		if !e.Modified.IsZero() {
			modified = e.Modified.Local().Format("2006-01-02 15:04")
		}
		row := []string{icon, name, size, modified}
		if p.verbose {
			row = append(row, e.Rev)
		}
		table.AddStyledRow(style, row...)
	}

	fmt.Fprintln(p.out, table.View())
}

// PrintResult prints the outcome of one file operation
func (p *Printer) PrintResult(r types.OperationResult) {
	if p.json {
		return
	}

	if r.Error != "" {
		p.Error(r.Error)
		return
	}

	switch r.Op {
	case "upload":
		p.Success(IconUpload + " " + RenderTransfer(r.Local, r.Remote) +
			MutedStyle.Render(fmt.Sprintf(" (%s)", FormatSize(uint64(r.Bytes)))))
	case "download":
		p.Success(IconDownload + " " + RenderTransfer(r.Remote, r.Local) +
			MutedStyle.Render(fmt.Sprintf(" (%s)", FormatSize(uint64(r.Bytes)))))
	case "delete":
		p.Success(IconDelete + " " + RenderDelete(r.Remote))
	case "skip":
		p.Warning(fmt.Sprintf("%s does not exist, skipped", r.Remote))
	default:
		p.Info(r.Op + " " + r.Remote)
	}
}

// PrintSummary prints the operation summary below a divider
func (p *Printer) PrintSummary(summary *OperationSummary) {
	if p.json {
		return
	}

	p.Divider()
	fmt.Fprintln(p.out, summary.View())
}

// Success prints a success message
func (p *Printer) Success(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderSuccess(msg))
}

// Warning prints a warning message
func (p *Printer) Warning(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderWarning(msg))
}

// Error prints an error message
func (p *Printer) Error(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderError(msg))
}

// Info prints an info message
func (p *Printer) Info(msg string) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, RenderInfo(msg))
}

// Divider prints a divider line
func (p *Printer) Divider() {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, MutedStyle.Render(strings.Repeat("─", 50)))
}

// Done prints the completion message
func (p *Printer) Done() {
	if p.json {
		return
	}

	done := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(fmt.Sprintf("%s Operation completed successfully!", IconSuccess))

	fmt.Fprintln(p.out, done)
}
