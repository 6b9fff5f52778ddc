package export

import (
	"math"
	"strconv"
	"strings"

	"gwi.com/globallaunch-advisor/internal/chart"
)

const (
	radarSize   = 300.0
	radarCenter = radarSize / 2
	radarRadius = 90.0
	// labels sit outside the full-scale ring
	radarLabelScale = 125.0
)

type point struct {
	X, Y float64
}

func (p point) String() string {
	return formatCoord(p.X) + "," + formatCoord(p.Y)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// radarPoint maps a 0-100 value on axis idx of n to SVG coordinates. Axis 0
// points straight up.
func radarPoint(value float64, idx, n int) point {
	angle := 2*math.Pi*float64(idx)/float64(n) - math.Pi/2
	r := value / 100 * radarRadius
	return point{
		X: radarCenter + r*math.Cos(angle),
		Y: radarCenter + r*math.Sin(angle),
	}
}

type radarLabel struct {
	X, Y string
	Text string
}

type radarView struct {
	Size        float64
	Center      float64
	Radius      float64
	InnerRadius float64
	Outline     string
	Values      string
	Labels      []radarLabel
	Dimensions  []chart.RadarDimension
	Overall     float64
}

func newRadarView(data *chart.RadarData) radarView {
	dims := data.Dimensions
	n := len(dims)
	outline := make([]string, 0, n)
	values := make([]string, 0, n)
	labels := make([]radarLabel, 0, n)
	for i, d := range dims {
		outline = append(outline, radarPoint(100, i, n).String())
		values = append(values, radarPoint(d.Value, i, n).String())
		lp := radarPoint(radarLabelScale, i, n)
		labels = append(labels, radarLabel{X: formatCoord(lp.X), Y: formatCoord(lp.Y), Text: d.Label})
	}
	return radarView{
		Size:        radarSize,
		Center:      radarCenter,
		Radius:      radarRadius,
		InnerRadius: radarRadius * 0.6,
		Outline:     strings.Join(outline, " "),
		Values:      strings.Join(values, " "),
		Labels:      labels,
		Dimensions:  dims,
		Overall:     data.OverallScore,
	}
}
