package analysis

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/i474232898/sales-data-pipeline/internal/weather"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// ChartWriter renders the aggregate views as PNG files in Dir, overwriting any
// previous run's output.
type ChartWriter struct {
	Dir string
}

// WriteAll computes every aggregate view and renders its chart artifact.
func (c ChartWriter) WriteAll(rows []weather.EnrichedOrder) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	customerTotals := TotalSalesPerCustomer(rows)
	bars := make([]chart.Value, 0, len(customerTotals))
	for _, t := range customerTotals {
		bars = append(bars, chart.Value{Label: strconv.Itoa(t.CustomerID), Value: t.TotalSales})
	}
	if err := c.writeBarChart("total_sales_per_customer.png", "Customer Total Sales", bars); err != nil {
		return err
	}

	productAverages := AverageProductQuantity(rows)
	bars = bars[:0]
	for _, p := range productAverages {
		bars = append(bars, chart.Value{Label: strconv.Itoa(p.ProductID), Value: p.Quantity})
	}
	if err := c.writeBarChart("average_product_quantity.png", "Average Product Quantity", bars); err != nil {
		return err
	}

	topProduct, err := TopSellingProduct(rows)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Top Selling Product is %d", topProduct.ProductID)
	if err := c.writeAnnotation("top_selling_product.png", msg); err != nil {
		return err
	}

	topCustomer, err := TopPurchasingCustomer(rows)
	if err != nil {
		return err
	}
	msg = fmt.Sprintf("Top Purchasing Customer is %d", topCustomer.CustomerID)
	if err := c.writeAnnotation("top_purchasing_customers.png", msg); err != nil {
		return err
	}

	if err := c.writeLineChart("sales_trend_daily.png", "Sales Trend Daily", SalesTrendDaily(rows)); err != nil {
		return err
	}

	monthly, err := SalesTrendMonthly(rows)
	if err != nil {
		return err
	}
	if err := c.writeLineChart("sales_trend_monthly.png", "Sales Trend Monthly", monthly); err != nil {
		return err
	}

	yearly, err := SalesTrendYearly(rows)
	if err != nil {
		return err
	}
	if err := c.writeLineChart("sales_trend_yearly.png", "Sales Trend Yearly", yearly); err != nil {
		return err
	}

	conditionTotals := WeatherTrend(rows)
	bars = bars[:0]
	for _, t := range conditionTotals {
		bars = append(bars, chart.Value{Label: t.Condition, Value: t.TotalSales})
	}
	if err := c.writeBarChart("weather_trend.png", "Weather Trend", bars); err != nil {
		return err
	}

	log.Printf("analysis: wrote chart artifacts to %s", c.Dir)
	return nil
}

func (c ChartWriter) writeBarChart(name, title string, bars []chart.Value) error {
	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: bars,
	}
	return c.render(name, func(f *os.File) error {
		return graph.Render(chart.PNG, f)
	})
}

func (c ChartWriter) writeLineChart(name, title string, points []TrendPoint) error {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	ticks := make([]chart.Tick, 0, len(points))
	for i, p := range points {
		xs = append(xs, float64(i))
		ys = append(ys, p.TotalSales)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
	}

	// A single bucket has a zero-width x-range, which the renderer rejects;
	// repeat the point to draw a flat line.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		ticks = append(ticks, chart.Tick{Value: 1, Label: points[0].Label})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return c.render(name, func(f *os.File) error {
		return graph.Render(chart.PNG, f)
	})
}

// writeAnnotation draws a single centered text line on a blank canvas.
func (c ChartWriter) writeAnnotation(name, message string) error {
	r, err := chart.PNG(chartWidth, chartHeight)
	if err != nil {
		return fmt.Errorf("create renderer for %s: %w", name, err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load default font: %w", err)
	}

	r.SetFillColor(chart.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(chartWidth, 0)
	r.LineTo(chartWidth, chartHeight)
	r.LineTo(0, chartHeight)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontSize(32)
	r.SetFontColor(chart.ColorBlack)

	box := r.MeasureText(message)
	r.Text(message, (chartWidth-box.Width())/2, chartHeight/2)

	return c.render(name, func(f *os.File) error {
		return r.Save(f)
	})
}

func (c ChartWriter) render(name string, write func(*os.File) error) error {
	path := filepath.Join(c.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
