package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/apscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStations(md, report)
	w.writeScans(md, report)
	w.writeWarnings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Base Station Scan")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scan Started", report.StartedAtText()},
			{"Utility", "`" + report.Utility + "`"},
			{"Base Stations", strconv.Itoa(report.StationCount())},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if failed := report.FailedScans(); failed > 0 {
		return "❌ " + strconv.Itoa(failed) + " scan(s) failed"
	}
	return "✅ Complete"
}

// writeStations writes the ranked station table.
func (w *MarkdownWriter) writeStations(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Base Stations")
	md.PlainText("")

	if report.StationCount() == 0 {
		md.Note("No base stations found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Stations))
	for i, st := range report.Stations {
		info := st.Info.WithDefaults()
		rows[i] = []string{
			"`" + st.BSSID + "`",
			escapeCell(st.Record.SSID),
			escapeCell(info.Model),
			escapeCell(info.Location()),
			strconv.Itoa(st.Record.Channel),
			strconv.Itoa(st.Record.RSSI) + " db",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"BSSID", "SSID", "Model", "Location", "Channel", "Strength"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeChannelChart(md, report)
}

// writeChannelChart writes a mermaid pie chart of stations per channel.
func (w *MarkdownWriter) writeChannelChart(md *markdown.Markdown, report *model.ScanReport) {
	counts := make(map[int]uint64)
	var channels []int
	for _, st := range report.Stations {
		if _, ok := counts[st.Record.Channel]; !ok {
			channels = append(channels, st.Record.Channel)
		}
		counts[st.Record.Channel]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Stations per Channel"),
		piechart.WithShowData(true),
	)
	for _, ch := range channels {
		chart.LabelAndIntValue("Channel "+strconv.Itoa(ch), counts[ch])
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeScans writes one row per utility invocation.
func (w *MarkdownWriter) writeScans(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Scans")
	md.PlainText("")

	rows := make([][]string, len(report.Networks))
	for i, scan := range report.Networks {
		result := strconv.Itoa(scan.Stations) + " station(s)"
		if scan.Failed() {
			result = "failed: " + escapeCell(scan.Error)
		}
		rows[i] = []string{escapeCell(scan.Label()), result, strconv.Itoa(scan.Skipped)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Network", "Result", "Skipped Lines"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWarnings writes the warnings list, if any.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.Warnings) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")
	md.Warningf("%d warning(s) were raised during the scan.", len(report.Warnings))
	md.PlainText("")
	md.BulletList(report.Warnings...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [apscan](https://github.com/nao1215/apscan)*")
}

// escapeCell keeps table cells on one column by escaping pipes.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
