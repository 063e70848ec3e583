// Package report renders analysis reports for the console and for machines
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/kbroman/errorgrams/pkg/analysis"
	"github.com/kbroman/errorgrams/pkg/trigram"
	"github.com/olekukonko/tablewriter"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a report is rendered
type Format string

// Supported formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

const summaryTemplate = `Run:           {{ .RunID }}
Generated:     {{ .GeneratedAt | date "2006-01-02 15:04:05 MST" }}
Posts:         {{ .Posts }} ({{ .PostsWithErrors }} with error messages)
Error strings: {{ .ErrorStrings }}
Trigrams:      {{ .TotalTrigrams }} ({{ .UniqueTrigrams }} distinct)
Coverage:      {{ mulf .Coverage 100 | printf "%.1f" }}% of error strings contain one of the top {{ .TopK }} trigrams
{{- if .Milestones }}
               {{ range $i, $m := .Milestones }}{{ if $i }}, {{ end }}top {{ $m.K }}: {{ mulf $m.Coverage 100 | printf "%.1f" }}%{{ end }}
{{- end }}
`

//nolint:gochecknoglobals // Fixed set of curve points shown in summaries
var milestoneKs = []int{1, 5, 10, 20, 30, 50, 100}

type milestone struct {
	K        int
	Coverage float64
}

type summaryView struct {
	*analysis.Report
	Milestones []milestone
}

// Renderer turns reports into text or JSON
type Renderer struct {
	summary *template.Template
	title   lipgloss.Style
	limit   int
}

// NewRenderer creates a renderer that shows at most limit ranked trigrams.
// A limit of 0 shows all of them.
func NewRenderer(limit int) (*Renderer, error) {
	tmpl, err := template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}

	return &Renderer{
		summary: tmpl,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")),
		limit: limit,
	}, nil
}

// Render writes rep to w in the requested format
func (r *Renderer) Render(w io.Writer, rep *analysis.Report, format Format) error {
	switch format {
	case FormatText:
		return r.WriteText(w, rep)
	case FormatJSON:
		return r.WriteJSON(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText writes the summary followed by the ranked trigram table
func (r *Renderer) WriteText(w io.Writer, rep *analysis.Report) error {
	var buf bytes.Buffer

	buf.WriteString(r.title.Render("Most frequent error trigrams"))
	buf.WriteString("\n\n")

	if err := r.summary.Execute(&buf, summaryView{Report: rep, Milestones: milestones(rep.CoverageCurve)}); err != nil {
		return fmt.Errorf("failed to execute summary template: %w", err)
	}

	buf.WriteString("\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	return WriteTable(w, r.limited(rep.Ranked), rep.TotalTrigrams)
}

// WriteJSON writes rep as indented JSON with the ranked list truncated to the limit
func (r *Renderer) WriteJSON(w io.Writer, rep *analysis.Report) error {
	out := *rep
	out.Ranked = r.limited(rep.Ranked)

	if out.Ranked == nil {
		out.Ranked = []trigram.Entry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

// WriteTable writes ranked entries as a table. total is the number of
// trigram occurrences the share column is relative to.
func WriteTable(w io.Writer, entries []trigram.Entry, total int) error {
	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Trigram", "Count", "Share")

	for i, e := range entries {
		share := 0.0
		if total > 0 {
			share = float64(e.Count) / float64(total) * 100
		}

		if err := table.Append(
			strconv.Itoa(i+1),
			e.Trigram,
			strconv.Itoa(e.Count),
			fmt.Sprintf("%.2f%%", share),
		); err != nil {
			return fmt.Errorf("failed to append row %d: %w", i+1, err)
		}
	}

	return table.Render()
}

func (r *Renderer) limited(entries []trigram.Entry) []trigram.Entry {
	if r.limit > 0 && r.limit < len(entries) {
		return entries[:r.limit]
	}

	return entries
}

func milestones(curve []float64) []milestone {
	var out []milestone

	for _, k := range milestoneKs {
		if k > len(curve) {
			break
		}

		out = append(out, milestone{K: k, Coverage: curve[k-1]})
	}

	return out
}
