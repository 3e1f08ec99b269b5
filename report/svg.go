package report

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	chartWidth  = 800
	chartHeight = 300
	chartMargin = 40
)

type svgPath struct {
	Key    string
	Color  string
	Area   bool
	Points string
}

type svgLabel struct {
	X, Y float64
	Text string
}

type svgChart struct {
	ID            string
	Width, Height int
	Paths         []svgPath
	// ZeroY is where the horizontal axis goes.
	ZeroY  float64
	Labels []svgLabel
}

// palette spreads n colours evenly around the HCL hue circle.
func palette(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		hue := 360 * float64(i) / float64(max(n, 1))
		colors[i] = colorful.Hcl(hue, 0.55, 0.65).Clamped().Hex()
	}
	return colors
}

// layout projects a chart onto an SVG canvas. Area series are stacked in
// order, line series are drawn on their own values.
func layout(c *Chart) *svgChart {
	if c == nil || len(c.Series) == 0 {
		return nil
	}
	n := len(c.Series[0].Points)

	tops := make([][]float64, len(c.Series))
	bases := make([][]float64, len(c.Series))
	stack := make([]float64, n)
	minY, maxY := 0.0, 0.0
	for s, series := range c.Series {
		tops[s] = make([]float64, n)
		bases[s] = make([]float64, n)
		for i, p := range series.Points {
			if series.Area {
				bases[s][i] = stack[i]
				stack[i] += p.Value
				tops[s][i] = stack[i]
			} else {
				tops[s][i] = p.Value
			}
			minY = min(minY, tops[s][i], bases[s][i])
			maxY = max(maxY, tops[s][i], bases[s][i])
		}
	}
	if maxY == minY {
		maxY = minY + 1
	}

	span := c.MaxX.Sub(c.MinX).Seconds()
	x := func(i int) float64 {
		if span == 0 {
			return chartWidth / 2
		}
		d := c.Series[0].Points[i].Date.Sub(c.MinX).Seconds()
		return chartMargin + d/span*(chartWidth-2*chartMargin)
	}
	y := func(v float64) float64 {
		return chartHeight - chartMargin - (v-minY)/(maxY-minY)*(chartHeight-2*chartMargin)
	}

	colors := palette(len(c.Series))
	out := &svgChart{
		ID:     c.ID,
		Width:  chartWidth,
		Height: chartHeight,
		ZeroY:  y(0),
		Labels: []svgLabel{
			{X: 2, Y: y(maxY), Text: strconv.FormatFloat(maxY, 'f', 0, 64)},
			{X: 2, Y: y(minY), Text: strconv.FormatFloat(minY, 'f', 0, 64)},
			{X: chartMargin, Y: chartHeight - 4, Text: c.MinX.Format("2006/01")},
			{X: chartWidth - 2*chartMargin, Y: chartHeight - 4, Text: c.MaxX.Format("2006/01")},
		},
	}
	for s, series := range c.Series {
		var pts []string
		for i := range series.Points {
			pts = append(pts, point(x(i), y(tops[s][i])))
		}
		if series.Area {
			// close the shape along the series below
			for i := n - 1; i >= 0; i-- {
				pts = append(pts, point(x(i), y(bases[s][i])))
			}
		}
		out.Paths = append(out.Paths, svgPath{
			Key:    series.Key,
			Color:  colors[s],
			Area:   series.Area,
			Points: strings.Join(pts, " "),
		})
	}
	return out
}

func point(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64) + "," + strconv.FormatFloat(y, 'f', 1, 64)
}
