package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}

// WriteFile writes the report to path, choosing the format from the
// file extension: .json for JSON, anything else for YAML.
func WriteFile(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	if filepath.Ext(path) == ".json" {
		return WriteJSON(file, r)
	}
	return WriteYAML(file, r)
}

// WriteSummaryTable renders the report tree as an ASCII table, one row
// per suite/case node with indentation showing nesting.
func WriteSummaryTable(w io.Writer, r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Test results: %s", r.Name)

	t.AppendHeader(table.Row{"TEST", "TESTS", "FAILED", "STATUS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "TEST", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "TESTS", Align: text.AlignRight},
		{Name: "FAILED", Align: text.AlignRight},
	})

	for _, child := range r.Root.Children {
		appendNodeRows(t, child, 0)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		r.Root.Tests,
		r.Root.Errors,
		statusText(r.Root),
	})
	t.Render()
}

// appendNodeRows walks interior nodes; assertion leaves are summarized
// by their parent's counts rather than listed row by row.
func appendNodeRows(t table.Writer, n *Node, depth int) {
	if len(n.Children) == 0 {
		return
	}
	t.AppendRow(table.Row{
		strings.Repeat("  ", depth) + n.Name,
		n.Tests,
		n.Errors,
		statusText(n),
	})
	for _, child := range n.Children {
		appendNodeRows(t, child, depth+1)
	}
}

func statusText(n *Node) string {
	if n.Tests == 0 {
		return text.FgYellow.Sprint("skip")
	}
	if n.Success {
		return text.FgGreen.Sprint("pass")
	}
	return text.FgRed.Sprint("fail")
}
