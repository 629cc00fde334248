package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/hit"
	"aspectscan/internal/core/scan"
	scandom "aspectscan/internal/services/scan/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHits(w io.Writer, resp scandom.Response) error {
	fmt.Fprintf(w, "run %s: %d hits", resp.RunID, resp.Total)
	if len(resp.Hits) < resp.Total {
		fmt.Fprintf(w, " (showing %d from offset %d)", len(resp.Hits), resp.Offset)
	}
	fmt.Fprintln(w)

	if len(resp.Hits) > 0 {
		t := newTable("exact (UTC)", "pair", "aspect", "orb", "phase", "severity", "band", "flags")
		for _, h := range resp.Hits {
			t.Row(
				h.Exact.UTC().Format("2006-01-02 15:04"),
				h.A.DisplayName()+" - "+h.B.DisplayName(),
				h.Aspect.DisplayName(),
				strconv.FormatFloat(h.Orb, 'f', 4, 64),
				phase(h),
				strconv.FormatFloat(h.Severity, 'f', 3, 64),
				h.Band.String(),
				flags(h.Flags),
			)
		}
		fmt.Fprintln(w, t.Render())
	}
	writeDiagnostics(w, resp.Diagnostics)
	return nil
}

func writeBins(w io.Writer, resp scandom.CompositeResponse) error {
	fmt.Fprintf(w, "run %s: %d hits in %d %s bins (%s)\n", resp.RunID, resp.Total, len(resp.Bins), resp.Period, resp.Agg)
	if len(resp.Bins) > 0 {
		layout := "2006-01-02"
		if resp.Period == "month" {
			layout = "2006-01"
		}
		t := newTable("bin", "hits", "score")
		for _, b := range resp.Bins {
			t.Row(b.Start.UTC().Format(layout), strconv.Itoa(b.Count), strconv.FormatFloat(b.Score, 'f', 3, 64))
		}
		fmt.Fprintln(w, t.Render())
	}
	writeDiagnostics(w, resp.Diagnostics)
	return nil
}

func writeAngles(w io.Writer, angles []catalog.AspectAngle) error {
	t := newTable("key", "label", "name", "degrees")
	for _, a := range angles {
		t.Row(a.Key(), a.Label(), a.DisplayName(), strconv.FormatFloat(a.Degrees, 'f', 4, 64))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func writeDiagnostics(w io.Writer, ds []scan.Diagnostic) {
	for _, d := range ds {
		var who []string
		if d.A.Valid() {
			who = append(who, d.A.String()+"-"+d.B.String())
		}
		if d.Aspect != "" {
			who = append(who, d.Aspect)
		}
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("! %s %s %s..%s: %s",
			d.Kind, strings.Join(who, " "), d.From.Format(time.RFC3339), d.To.Format(time.RFC3339), d.Err)))
	}
}

func phase(h hit.Hit) string {
	if h.Applying {
		return "applying"
	}
	return "separating"
}

func flags(f hit.Flags) string {
	var out []string
	if f.Retrograde {
		out = append(out, "R")
	}
	if f.Station {
		out = append(out, "S")
	}
	if f.Angular {
		out = append(out, "ang")
	}
	if f.Partile {
		out = append(out, "partile")
	}
	if f.Split {
		out = append(out, "split")
	}
	return strings.Join(out, ",")
}
