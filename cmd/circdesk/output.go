package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/circdesk/circdesk/internal/batch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", value)
	}
}

// listing is a command result: the rows for table output and the raw
// records for json and yaml.
type listing struct {
	headers []string
	rows    [][]string
	data    any
	empty   string
}

type printer struct {
	out    io.Writer
	errOut io.Writer
	format outputFormat
}

// ok prints a green success line.
func (p printer) ok(format string, a ...any) {
	fmt.Fprintln(p.out, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func (p printer) warn(format string, a ...any) {
	fmt.Fprintln(p.errOut, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// fail prints a red error line.
func (p printer) fail(format string, a ...any) {
	fmt.Fprintln(p.errOut, color.RedString("✗"), fmt.Sprintf(format, a...))
}

func (p printer) render(l listing) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(l.data)
	case formatYAML:
		return writeYAML(p.out, l.data)
	}

	if len(l.rows) == 0 {
		if l.empty != "" {
			fmt.Fprintln(p.out, l.empty)
		}
		return nil
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(l.headers...).
		Rows(l.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(p.out, t.Render())
	return err
}

// writeYAML emits data with the same keys as the JSON form. The JSON is
// parsed as YAML and its flow styles cleared so it prints in block style.
func writeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// reportBatch prints a batch outcome. Any failed item makes the command fail.
func reportBatch[P any](p printer, label string, o batch.Outcome[P]) error {
	if o.ErrorCount == 0 {
		p.ok("%s: %s", label, o.Summary())
		return nil
	}
	if o.AnySucceeded() {
		p.warn("%s: %s", label, o.Summary())
	} else {
		p.fail("%s: %s", label, o.Summary())
	}
	for _, line := range o.Details() {
		p.fail("%s", line)
	}
	return errReported
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
