package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-bi-dashboard/pkg/backend"
	"github.com/goliatone/go-bi-dashboard/pkg/session"
)

// Exporter writes a standalone HTML report of the viewer's recent results
// plus the last submitted sales payload mirrored into the session.
type Exporter struct {
	feed      ResultFeed
	snapshots session.SnapshotStore
	dir       string
	telemetry Telemetry
}

// ExporterOptions wires the exporter's collaborators.
type ExporterOptions struct {
	Results   ResultFeed
	Snapshots session.SnapshotStore
	Dir       string
	Telemetry Telemetry
}

// NewExporter builds an exporter writing into the given directory.
func NewExporter(opts ExporterOptions) *Exporter {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		feed:      opts.Results,
		snapshots: opts.Snapshots,
		dir:       dir,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

// Export renders the report and returns the written file path. The filename
// is derived from the viewer's name, kebab-cased, plus a timestamp.
func (e *Exporter) Export(ctx context.Context, viewer ViewerContext) (string, error) {
	if e.feed == nil {
		return "", fmt.Errorf("dashboard: exporter requires a result feed")
	}
	entries, err := e.feed.Recent(ctx, viewer, 0)
	if err != nil {
		return "", fmt.Errorf("dashboard: export results: %w", err)
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("dashboard: create export dir: %w", err)
	}

	name := viewer.FullName
	if name == "" {
		name = viewer.UserID
	}
	if name == "" {
		name = "report"
	}
	filename := fmt.Sprintf("%s-%s.html", strcase.ToKebab(name), time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(e.dir, filename)

	if err := os.WriteFile(path, []byte(e.renderReport(viewer, entries)), 0o644); err != nil {
		return "", fmt.Errorf("dashboard: write export: %w", err)
	}
	e.telemetry.Record(ctx, "dashboard.export", map[string]any{
		"viewer":  viewer.UserID,
		"path":    path,
		"entries": len(entries),
	})
	return path, nil
}

func (e *Exporter) renderReport(viewer ViewerContext, entries []ResultEntry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>BI Dashboard Report</title>")
	b.WriteString("<style>body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:0.4rem 0.8rem}</style>")
	b.WriteString("</head><body>")
	fmt.Fprintf(&b, "<h1>BI Dashboard Report</h1><p>%s", html.EscapeString(viewer.FullName))
	if viewer.Company != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(viewer.Company))
	}
	fmt.Fprintf(&b, " exported %s</p>", time.Now().UTC().Format(time.RFC1123))

	e.renderSalesSnapshot(&b)

	if len(entries) == 0 {
		b.WriteString("<p>No prediction results recorded.</p>")
	} else {
		b.WriteString("<table><tr><th>Time</th><th>Widget</th><th>Value</th><th>Severity</th><th>Status</th></tr>")
		for _, entry := range entries {
			status := "ok"
			if entry.Failed {
				status = "failed"
			}
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%.4f</td><td>%s</td><td>%s</td></tr>",
				entry.At.Format(time.RFC3339),
				html.EscapeString(widgetDisplayName(entry.Widget)),
				entry.Value,
				html.EscapeString(string(entry.Severity)),
				status,
			)
		}
		b.WriteString("</table>")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

// renderSalesSnapshot writes the last submitted sales drivers, if the session
// mirrored one. The widget may have moved on; the snapshot survives it.
func (e *Exporter) renderSalesSnapshot(b *strings.Builder) {
	if e.snapshots == nil {
		return
	}
	payload, ok := e.snapshots.SalesSnapshot()
	if !ok {
		return
	}
	var features backend.SalesFeatures
	if err := json.Unmarshal(payload, &features); err != nil {
		return
	}
	region := "West"
	switch {
	case features.RegionEast == 1:
		region = "East"
	case features.RegionNorth == 1:
		region = "North"
	case features.RegionSouth == 1:
		region = "South"
	}
	b.WriteString("<h2>Last Submitted Sales Drivers</h2>")
	b.WriteString("<table><tr><th>Temperature</th><th>Customers</th><th>Marketing Spend</th><th>Month</th><th>Day of Week</th><th>Region</th><th>Promotion</th><th>Holiday</th></tr>")
	fmt.Fprintf(b, "<tr><td>%.2f</td><td>%d</td><td>%.2f</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>",
		features.Temperature,
		features.Customers,
		features.MarketingSpend,
		features.Month,
		features.DayOfWeek,
		region,
		yesNo(features.PromotionYes),
		yesNo(features.HolidayYes),
	)
	b.WriteString("</table>")
}

func yesNo(flag int) string {
	if flag == 1 {
		return "yes"
	}
	return "no"
}

func widgetDisplayName(code string) string {
	switch code {
	case WidgetSales:
		return "Sales Prediction"
	case WidgetMaintenance:
		return "Maintenance Prediction"
	case WidgetChat:
		return "BI Assistant"
	default:
		return code
	}
}
