package report

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/team"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// teamPlotColors are the line colors of each team in PNG charts
var teamPlotColors = team.PerTeam[color.RGBA]{
	Team1: color.RGBA{R: 0, G: 191, B: 255, A: 255},
	Team2: color.RGBA{R: 255, G: 20, B: 147, A: 255},
}

// series returns the frame numbers and values of a metric for a team
func series(s MatchStats, t team.Team, metric string) ([]int, []float64, error) {

	tl := s.Timeline.Get(t)
	values, ok := tl.Metrics[metric]

	if !ok {
		return nil, nil, fmt.Errorf("timeline for %s has no metric %q", t, metric)
	}

	if len(values) != len(tl.FrameNumber) {
		return nil, nil, fmt.Errorf("timeline for %s has %d %s values for %d frames",
			t, len(values), metric, len(tl.FrameNumber))
	}

	return tl.FrameNumber, values, nil
}

// WriteHTMLChart renders an interactive line chart of a metric over time
// for both teams
func WriteHTMLChart(w io.Writer, s MatchStats, metric string) error {

	if _, known := (metrics.Snapshot{}).Value(metric); !known {
		return fmt.Errorf("unknown metric %q", metric)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tactical Timeline", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: metric, Subtitle: fmt.Sprintf("frames=%d duration=%.1fs", s.TotalFrames, s.DurationSeconds)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric, NameLocation: "middle", NameGap: 40}),
	)

	// frames from both teams are merged onto one category axis, a team
	// without a value at a frame is left as a gap
	frameSet := make(map[int]bool)
	values := make(map[team.Team]map[int]float64, 2)

	for _, t := range team.All {
		frames, vals, err := series(s, t, metric)

		if err != nil {
			return err
		}

		values[t] = make(map[int]float64, len(frames))

		for i, f := range frames {
			frameSet[f] = true
			values[t][f] = vals[i]
		}
	}

	axis := sortedFrames(frameSet)
	line.SetXAxis(axis)

	for _, t := range team.All {
		data := make([]opts.LineData, len(axis))

		for i, f := range axis {
			if v, ok := values[t][f]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}

		line.AddSeries(t.String(), data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// WritePNGChart saves a static line plot of a metric over time for both
// teams
func WritePNGChart(path string, s MatchStats, metric string) error {

	if _, known := (metrics.Snapshot{}).Value(metric); !known {
		return fmt.Errorf("unknown metric %q", metric)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s over time", metric)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = metric

	for _, t := range team.All {
		frames, vals, err := series(s, t, metric)

		if err != nil {
			return err
		}

		if len(frames) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(frames))

		for i := range frames {
			pts[i] = plotter.XY{X: float64(frames[i]), Y: vals[i]}
		}

		ln, err := plotter.NewLine(pts)

		if err != nil {
			return err
		}

		ln.Color = teamPlotColors.Get(t)
		ln.Width = vg.Points(1)
		p.Add(ln)
		p.Legend.Add(t.String(), ln)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}

	return nil
}

func sortedFrames(set map[int]bool) []int {

	out := make([]int, 0, len(set))

	for f := range set {
		out = append(out, f)
	}

	sort.Ints(out)

	return out
}
