package charts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/query"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "",
		Subtitle:   "",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// ScorePoint is one record's score positioned on the time axis.
type ScorePoint struct {
	Label string // Match date, or creation date when unset
	Value float64
}

// RenderDistributionChart creates an interactive pie chart HTML file
// from a categorical distribution.
func RenderDistributionChart(dist Distribution, config ChartConfig, outputPath string) error {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
	)

	items := make([]opts.PieData, len(dist.Buckets))
	for i, b := range dist.Buckets {
		items[i] = opts.PieData{Name: b.Label, Value: b.Count}
	}

	pie.AddSeries("Distribution", items).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {d}%",
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := pie.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// ScoreSeries extracts the chronological score series from a result
// set. Records without a parseable score are omitted; the remainder
// is ordered oldest to newest.
func ScoreSeries(records []*models.Record) []ScorePoint {
	ordered := query.Sort(records, "date", query.Asc)

	points := make([]ScorePoint, 0, len(ordered))
	for _, r := range ordered {
		if r.Score == "" {
			continue
		}
		value, err := strconv.ParseFloat(r.Score, 64)
		if err != nil {
			continue
		}
		label := r.Date
		if label == "" {
			label = r.CreatedTime().Format(dates.Canonical)
		}
		points = append(points, ScorePoint{Label: label, Value: value})
	}
	return points
}

// RenderScoreChart creates an interactive line chart HTML file from a
// chronological score series.
func RenderScoreChart(points []ScorePoint, config ChartConfig, outputPath string) error {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	xLabels := make([]string, len(points))
	for i, point := range points {
		xLabels[i] = point.Label
	}

	yData := make([]opts.LineData, len(points))
	for i, point := range points {
		yData[i] = opts.LineData{Value: point.Value}
	}

	line.SetXAxis(xLabels).
		AddSeries("Score", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
