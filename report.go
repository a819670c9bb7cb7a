// Copyright 2017 Inca Roads LLC.  All rights reserved.
// Use of this source code is governed by licenses granted by the
// copyright holder including that found in the LICENSE file.

// Static report rendering: aggregate tables plus time-series charts in
// one self-contained HTML page
package main

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// RenderConfig carries the report's appearance settings.  It is passed
// explicitly to the renderer; there is no process-global display state.
type RenderConfig struct {
	Title     string
	Precision int
	Theme     string
}

// DefaultRenderConfig returns the production report appearance
func DefaultRenderConfig(title string) RenderConfig {
	return RenderConfig{
		Title:     title,
		Precision: 3,
		Theme:     types.ThemeWesteros,
	}
}

// Explicit column orders for the aggregate tables, one list per stream.
// Nothing selects columns by name pattern.
var statusAggColumns = []string{"battery_voltage", "heading", "pitch", "roll", "sound_speed", "temperature"}
var turboAggColumns = []string{"speed_hz", "power_w", "bearing_temp", "motor_temp", "voltage"}
var tempAggColumns = []string{"housing_temp", "electronics_temp"}
var advAggColumns = []string{"pressure", "ana1", "ana2", "vx", "vy", "vz", "amp1", "amp2", "amp3", "cor1", "cor2", "cor3"}

func rgaAggColumns() []string {
	var cols []string
	for _, m := range MonitoredMasses {
		cols = append(cols, MassField(m))
	}
	for _, m := range MonitoredMasses {
		if m != MassReference {
			cols = append(cols, MassRatioField(m))
		}
	}
	return cols
}

type reportTable struct {
	Name     string
	HasInlet bool
	Columns  []string
	Rows     [][]string
}

type reportChart struct {
	Element template.HTML
	Script  template.HTML
}

type reportData struct {
	Title     string
	RunID     string
	Generated string
	Batches   int
	Dropped   int
	Tables    []reportTable
	Charts    []reportChart
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: right; }
th { background: #eee; }
.meta { color: #666; margin-bottom: 2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">run {{.RunID}} &middot; generated {{.Generated}} &middot; {{.Batches}} batches &middot; {{.Dropped}} lines dropped</p>
{{range .Tables}}
<h2>{{.Name}}</h2>
<table>
<tr><th>batch</th>{{if .HasInlet}}<th>inlet</th>{{end}}<th>time</th><th>rows</th><th>missing</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
{{range .Charts}}
{{.Element}}
{{.Script}}
{{end}}
</body>
</html>
`

// RenderReport writes the full report page
func RenderReport(t *CleanedTables, cfg RenderConfig, runID string, w io.Writer) error {

	data := reportData{
		Title:     cfg.Title,
		RunID:     runID,
		Generated: NowInUTC(),
		Batches:   len(t.Batches),
		Dropped:   t.Dropped,
	}

	data.Tables = append(data.Tables,
		aggTable("Status / navigation", t.StatusAgg, statusAggColumns, false, cfg.Precision),
		aggTable("Mass spectrometer (by inlet)", t.RGAAgg, rgaAggColumns(), true, cfg.Precision),
		aggTable("Turbopump", t.TurboAgg, turboAggColumns, false, cfg.Precision),
		aggTable("Temperature", t.TempAgg, tempAggColumns, false, cfg.Precision),
		aggTable("Velocity (ADV)", t.ADVAgg, advAggColumns, false, cfg.Precision),
	)

	for _, c := range buildCharts(t, cfg) {
		snippet := c.RenderSnippet()
		data.Charts = append(data.Charts, reportChart{
			Element: template.HTML(snippet.Element),
			Script:  template.HTML(snippet.Script),
		})
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return tmpl.Execute(w, data)
}

func aggTable(name string, aggs []AggregateRow, columns []string, hasInlet bool, prec int) reportTable {
	tbl := reportTable{Name: name, HasInlet: hasInlet, Columns: columns}
	for _, a := range aggs {
		row := []string{fmt.Sprintf("%d", a.BatchID)}
		if hasInlet {
			row = append(row, a.Inlet)
		}
		row = append(row,
			a.Timestamp.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", a.Rows),
			fmt.Sprintf("%.*f", prec, a.MissingFrac))
		for _, col := range columns {
			row = append(row, formatStat(a.Fields[col], prec))
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

func formatStat(s FieldStat, prec int) string {
	if s.Count == 0 || math.IsNaN(s.Mean) {
		return ""
	}
	if math.IsNaN(s.Stddev) {
		return fmt.Sprintf("%.*f", prec, s.Mean)
	}
	return fmt.Sprintf("%.*f ± %.*f", prec, s.Mean, prec, s.Stddev)
}

func chartTime(t time.Time) string {
	return t.UTC().Format("01-02 15:04")
}

func newLine(cfg RenderConfig, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  cfg.Theme,
			Width:  "950px",
			Height: "420px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)
	return line
}

func buildCharts(t *CleanedTables, cfg RenderConfig) []*charts.Line {
	var out []*charts.Line

	if len(t.Status) > 0 {
		x := make([]string, len(t.Status))
		batt := make([]opts.LineData, len(t.Status))
		sound := make([]opts.LineData, len(t.Status))
		for i, r := range t.Status {
			x[i] = chartTime(r.Timestamp)
			batt[i] = opts.LineData{Value: r.BatteryVoltage}
			sound[i] = opts.LineData{Value: r.SoundSpeed}
		}
		l := newLine(cfg, "Battery voltage")
		l.SetXAxis(x).AddSeries("battery_voltage", batt)
		out = append(out, l)

		l = newLine(cfg, "Sound speed")
		l.SetXAxis(x).AddSeries("sound_speed", sound)
		out = append(out, l)
	}

	if len(t.Cycles) > 0 {
		x := make([]string, len(t.Cycles))
		for i, c := range t.Cycles {
			x[i] = chartTime(c.Timestamp)
		}
		l := newLine(cfg, "Partial pressures")
		l.SetXAxis(x)
		for _, m := range MonitoredMasses {
			series := make([]opts.LineData, len(t.Cycles))
			for i, c := range t.Cycles {
				if p, ok := c.Pressures[m]; ok {
					series[i] = opts.LineData{Value: p}
				} else {
					series[i] = opts.LineData{Value: nil}
				}
			}
			l.AddSeries(MassLabel(m), series)
		}
		out = append(out, l)

		l = newLine(cfg, "Argon ratios")
		l.SetXAxis(x)
		for _, m := range MonitoredMasses {
			if m == MassReference {
				continue
			}
			series := make([]opts.LineData, len(t.Cycles))
			for i, c := range t.Cycles {
				if r, ok := c.Ratios[m]; ok {
					series[i] = opts.LineData{Value: r}
				} else {
					series[i] = opts.LineData{Value: nil}
				}
			}
			l.AddSeries(MassLabel(m), series)
		}
		out = append(out, l)
	}

	if len(t.ADV) > 0 {
		x := make([]string, len(t.ADV))
		vx := make([]opts.LineData, len(t.ADV))
		vy := make([]opts.LineData, len(t.ADV))
		vz := make([]opts.LineData, len(t.ADV))
		for i, r := range t.ADV {
			x[i] = chartTime(r.Timestamp)
			vx[i] = opts.LineData{Value: r.VX}
			vy[i] = opts.LineData{Value: r.VY}
			vz[i] = opts.LineData{Value: r.VZ}
		}
		l := newLine(cfg, "Current velocity")
		l.SetXAxis(x).AddSeries("vx", vx).AddSeries("vy", vy).AddSeries("vz", vz)
		out = append(out, l)
	}

	if len(t.Turbo) > 0 {
		x := make([]string, len(t.Turbo))
		speed := make([]opts.LineData, len(t.Turbo))
		power := make([]opts.LineData, len(t.Turbo))
		for i, r := range t.Turbo {
			x[i] = chartTime(r.Timestamp)
			speed[i] = opts.LineData{Value: r.SpeedHz}
			power[i] = opts.LineData{Value: r.PowerW}
		}
		l := newLine(cfg, "Turbopump")
		l.SetXAxis(x).AddSeries("speed_hz", speed).AddSeries("power_w", power)
		out = append(out, l)
	}

	if len(t.Temp) > 0 {
		x := make([]string, len(t.Temp))
		housing := make([]opts.LineData, len(t.Temp))
		elec := make([]opts.LineData, len(t.Temp))
		for i, r := range t.Temp {
			x[i] = chartTime(r.Timestamp)
			housing[i] = opts.LineData{Value: r.HousingTempC}
			elec[i] = opts.LineData{Value: r.ElectronicsTempC}
		}
		l := newLine(cfg, "Temperatures")
		l.SetXAxis(x).AddSeries("housing", housing).AddSeries("electronics", elec)
		out = append(out, l)
	}

	return out
}
