package lobbyctl

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	return f == FormatTable || f == FormatYAML
}

// Printer renders command results as aligned text tables or YAML documents.
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter returns a Printer writing to w in format. Unknown formats fall
// back to FormatTable.
func NewPrinter(w io.Writer, format string) *Printer {
	if !ValidFormat(format) {
		format = FormatTable
	}
	return &Printer{w: w, format: format}
}

// Table renders rows under header. In YAML mode v is encoded instead.
func (p *Printer) Table(header []string, rows [][]string, v any) error {
	if p.format == FormatYAML {
		return p.yaml(v)
	}
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// Lines prints one line per element, or a YAML sequence.
func (p *Printer) Lines(lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	return p.List(lines, lines)
}

// List prints one line per element in table mode and v in YAML mode.
func (p *Printer) List(lines []string, v any) error {
	if p.format == FormatYAML {
		return p.yaml(v)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(p.w, l); err != nil {
			return err
		}
	}
	return nil
}

// Result prints the outcome of a mutation.
func (p *Printer) Result(ok bool) error {
	if p.format == FormatYAML {
		return p.yaml(map[string]bool{"ok": ok})
	}
	word := "ok"
	if !ok {
		word = "rejected"
	}
	_, err := fmt.Fprintln(p.w, word)
	return err
}

// Text prints a single free-form line in table mode and v in YAML mode.
func (p *Printer) Text(line string, v any) error {
	if p.format == FormatYAML {
		return p.yaml(v)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
