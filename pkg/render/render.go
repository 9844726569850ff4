// Package render writes the about report as styled text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/device-info/pkg/about"
	"gitlab.com/tinyland/lab/device-info/pkg/kernel"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("render: unknown format %q (supported: text, json, yaml)", s)
	}
}

// KernelDetail is the parsed kernel version, present only when the
// version line matched.
type KernelDetail struct {
	kernel.Version `yaml:",inline"`

	ReleaseVersion string `json:"release_version,omitempty" yaml:"release_version,omitempty"`
}

// Report is everything the about command prints.
type Report struct {
	Summary      string        `json:"summary" yaml:"summary"`
	Items        []about.Item  `json:"items" yaml:"items"`
	Kernel       *KernelDetail `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	NonIndexable []string      `json:"non_indexable,omitempty" yaml:"non_indexable,omitempty"`
}

// NewKernelDetail parses raw into a KernelDetail. It returns nil when raw
// does not match the version pattern.
func NewKernelDetail(raw string) *KernelDetail {
	v, err := kernel.Parse(raw)
	if err != nil {
		return nil
	}
	d := &KernelDetail{Version: v}
	if sv, err := v.Semver(); err == nil {
		d.ReleaseVersion = sv.String()
	}
	return d
}

// Options control text rendering.
type Options struct {
	// Width is the total line width. Zero means 80.
	Width int
	// Profile is the color profile. termenv.Ascii disables styling.
	Profile termenv.Profile
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("render: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("render: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, Text(r, opts))
		return err
	}
}

// minValueWidth keeps values readable on very narrow terminals.
const minValueWidth = 20

// Text returns the report as aligned title/value rows.
func Text(r Report, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(opts.Profile)
	headerStyle := lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	titleStyle := lr.NewStyle().Bold(true)
	valueStyle := lr.NewStyle()
	dimStyle := lr.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	col := 0
	for _, it := range r.Items {
		if w := ansi.StringWidth(it.Title); w > col {
			col = w
		}
	}
	col += 2
	if col > width-minValueWidth {
		col = max(width-minValueWidth, 1)
	}
	valueWidth := max(width-col, minValueWidth)

	var b strings.Builder
	b.WriteString(headerStyle.Render("About device"))
	b.WriteString("\n")
	if r.Summary != "" {
		b.WriteString(dimStyle.Render(r.Summary))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, it := range r.Items {
		title := ansi.Truncate(it.Title, col-1, "…")
		pad := strings.Repeat(" ", col-ansi.StringWidth(title))
		indent := strings.Repeat(" ", col)

		lines := valueLines(it.Value, valueWidth)
		b.WriteString(titleStyle.Render(title))
		b.WriteString(pad)
		if len(lines) > 0 {
			b.WriteString(valueStyle.Render(lines[0]))
		}
		b.WriteString("\n")
		for _, l := range lines[min(1, len(lines)):] {
			b.WriteString(indent)
			b.WriteString(valueStyle.Render(l))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// valueLines splits a value on its own line breaks and wraps each line to
// width.
func valueLines(value string, width int) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(value, "\n") {
		out = append(out, strings.Split(ansi.Wrap(l, width, ""), "\n")...)
	}
	return out
}
