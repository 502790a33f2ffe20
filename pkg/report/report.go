package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"sigcrop/pkg/history"
	"sigcrop/pkg/logger"
)

// Paths lists the files a report generation produced.
type Paths struct {
	Text  string
	HTML  string
	Chart string
}

// Generate renders the full ledger into dir as a plain-text report, an HTML
// table, and a bar chart of crop sizes. Each file is rewritten from scratch;
// reports are never incremental.
func Generate(dir string, entries []history.Entry) (Paths, error) {
	log := logger.GetLogger()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	paths := Paths{
		Text:  filepath.Join(dir, "cropping_report.txt"),
		HTML:  filepath.Join(dir, "cropping_report.html"),
		Chart: filepath.Join(dir, "cropping_report_chart.html"),
	}

	if err := writeText(paths.Text, entries); err != nil {
		return Paths{}, err
	}
	if err := writeHTML(paths.HTML, entries); err != nil {
		return Paths{}, err
	}
	if err := writeChart(paths.Chart, entries); err != nil {
		return Paths{}, err
	}

	log.WithFields(map[string]interface{}{
		"entries": len(entries),
		"dir":     dir,
	}).Info("report generated")
	return paths, nil
}

// cropLengths returns the sample count of each crop as float64 for stats.
func cropLengths(entries []history.Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(e.EndIndex - e.StartIndex + 1)
	}
	return out
}

func writeText(path string, entries []history.Entry) error {
	var b strings.Builder
	b.WriteString("Cropping Report\n")
	b.WriteString("===============\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Crops: %d\n", len(entries))

	if len(entries) > 0 {
		lengths := cropLengths(entries)
		fmt.Fprintf(&b, "Samples per crop: mean %.1f, min %.0f, max %.0f\n",
			stat.Mean(lengths, nil), floats.Min(lengths), floats.Max(lengths))
	}
	b.WriteString("\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "File:        %s\n", e.FileName)
		fmt.Fprintf(&b, "Start index: %d\n", e.StartIndex)
		fmt.Fprintf(&b, "End index:   %d\n", e.EndIndex)
		fmt.Fprintf(&b, "Save path:   %s\n", e.SavePath)
		fmt.Fprintf(&b, "Timestamp:   %s\n", e.Timestamp)
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Cropping Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #444; padding: 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Cropping Report</h1>
<p>Generated {{.Generated}} &mdash; {{len .Entries}} crops</p>
<table>
<tr><th>File</th><th>Start index</th><th>End index</th><th>Save path</th><th>Timestamp</th></tr>
{{range .Entries}}<tr><td>{{.FileName}}</td><td>{{.StartIndex}}</td><td>{{.EndIndex}}</td><td>{{.SavePath}}</td><td>{{.Timestamp}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func writeHTML(path string, entries []history.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create html report: %w", err)
	}
	defer f.Close()

	return htmlTemplate.Execute(f, struct {
		Generated string
		Entries   []history.Entry
	}{
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Entries:   entries,
	})
}

// writeChart renders a bar chart of crop sample counts, one bar per crop.
func writeChart(path string, entries []history.Entry) error {
	names := make([]string, len(entries))
	data := make([]opts.BarData, len(entries))
	for i, e := range entries {
		names[i] = filepath.Base(e.SavePath)
		data[i] = opts.BarData{Value: e.EndIndex - e.StartIndex + 1}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Cropping Report",
			Width:     "1100px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Crop sizes",
			Subtitle: fmt.Sprintf("%d crops", len(entries)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "samples"}),
	)
	bar.SetXAxis(names).AddSeries("samples", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart report: %w", err)
	}
	defer f.Close()

	return bar.Render(f)
}
