package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderChart рисует столбчатую диаграмму расходов по категориям.
// Возвращает nil без ошибки, если рисовать нечего.
func RenderChart(s Summary) ([]byte, error) {
	if len(s.Expenses) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(s.Expenses))
	for _, c := range s.Expenses {
		v, _ := c.Total.Float64()
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: v,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Расходы %02d.%d", int(s.Month), s.Year),
		Width:    900,
		Height:   500,
		BarWidth: 60,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{FontSize: 10},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
