package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"salarydash/internal/domain"
)

const (
	seriesLabel = "Total Jobs"
	seriesColor = "rgba(75,192,192,1)"

	ChartWidth  = 800
	ChartHeight = 400
)

var teal = drawing.Color{R: 75, G: 192, B: 192, A: 255}

// ChartData is the line chart payload consumed by chart widgets.
type ChartData struct {
	Labels   []int          `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string `json:"label"`
	Data            []int  `json:"data"`
	Fill            bool   `json:"fill"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
}

// NewChartData builds the total-jobs-per-year series from rows in the order
// given.
func NewChartData(rows []domain.YearSummary) ChartData {
	labels := make([]int, 0, len(rows))
	data := make([]int, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Year)
		data = append(data, r.TotalJobs)
	}
	return ChartData{
		Labels: labels,
		Datasets: []ChartDataset{{
			Label:           seriesLabel,
			Data:            data,
			Fill:            false,
			BackgroundColor: seriesColor,
			BorderColor:     seriesColor,
		}},
	}
}

// ChartPNG renders rows as a line chart. Years are spaced evenly in the
// order given. An empty series renders a blank image, and so does a failed
// render, in which case the render error is still returned.
func ChartPNG(w io.Writer, rows []domain.YearSummary) error {
	if len(rows) == 0 {
		return png.Encode(w, blank(ChartWidth, ChartHeight))
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	ticks := make([]chart.Tick, len(rows))
	maxY := 0.0
	for i, r := range rows {
		xs[i] = float64(i)
		ys[i] = float64(r.TotalJobs)
		ticks[i] = chart.Tick{Value: float64(i), Label: strconv.Itoa(r.Year)}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	if len(rows) == 1 {
		// go-chart needs two points for a non-zero x range
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	if maxY <= 0 {
		maxY = 1
	}

	ch := chart.Chart{
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Year",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(rows)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  seriesLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    seriesLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: teal,
					StrokeWidth: 2,
					DotColor:    teal,
					DotWidth:    4,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		if perr := png.Encode(w, blank(ChartWidth, ChartHeight)); perr != nil {
			return perr
		}
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}
