package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/i474232898/sales-data-pipeline/internal/weather"
)

// ErrNoData is returned by aggregates that cannot produce a result from an
// empty input.
var ErrNoData = errors.New("no rows to aggregate")

// CustomerTotal is the summed sales value for one customer.
type CustomerTotal struct {
	CustomerID int
	TotalSales float64
}

// ProductQuantity is a per-product quantity aggregate (sum or mean depending
// on the producing function).
type ProductQuantity struct {
	ProductID int
	Quantity  float64
}

// TrendPoint is one bucket of a sales trend grouping.
type TrendPoint struct {
	Label      string
	TotalSales float64
}

// ConditionTotal is the summed sales value for one weather condition.
type ConditionTotal struct {
	Condition  string
	TotalSales float64
}

func totalSales(row weather.EnrichedOrder) float64 {
	return float64(row.Quantity) * row.Price
}

// TotalSalesPerCustomer sums quantity*price per customer, ordered by customer id.
func TotalSalesPerCustomer(rows []weather.EnrichedOrder) []CustomerTotal {
	sums := make(map[int]float64)
	for _, row := range rows {
		sums[row.CustomerID] += totalSales(row)
	}

	totals := make([]CustomerTotal, 0, len(sums))
	for id, sum := range sums {
		totals = append(totals, CustomerTotal{CustomerID: id, TotalSales: sum})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].CustomerID < totals[j].CustomerID })
	return totals
}

// AverageProductQuantity computes the mean quantity per product, ordered by
// product id.
func AverageProductQuantity(rows []weather.EnrichedOrder) []ProductQuantity {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, row := range rows {
		sums[row.ProductID] += float64(row.Quantity)
		counts[row.ProductID]++
	}

	averages := make([]ProductQuantity, 0, len(sums))
	for id, sum := range sums {
		averages = append(averages, ProductQuantity{ProductID: id, Quantity: sum / float64(counts[id])})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].ProductID < averages[j].ProductID })
	return averages
}

// TopSellingProduct returns the product with the maximum summed quantity. On a
// tie, the first product in key-sorted group order wins.
func TopSellingProduct(rows []weather.EnrichedOrder) (ProductQuantity, error) {
	if len(rows) == 0 {
		return ProductQuantity{}, ErrNoData
	}

	sums := make(map[int]float64)
	for _, row := range rows {
		sums[row.ProductID] += float64(row.Quantity)
	}

	ids := make([]int, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	top := ProductQuantity{ProductID: ids[0], Quantity: sums[ids[0]]}
	for _, id := range ids[1:] {
		if sums[id] > top.Quantity {
			top = ProductQuantity{ProductID: id, Quantity: sums[id]}
		}
	}
	return top, nil
}

// TopPurchasingCustomer returns the customer with the maximum summed sales
// value, with the same key-order tie-break as TopSellingProduct.
func TopPurchasingCustomer(rows []weather.EnrichedOrder) (CustomerTotal, error) {
	if len(rows) == 0 {
		return CustomerTotal{}, ErrNoData
	}

	totals := TotalSalesPerCustomer(rows)
	top := totals[0]
	for _, t := range totals[1:] {
		if t.TotalSales > top.TotalSales {
			top = t
		}
	}
	return top, nil
}

// SalesTrendDaily sums sales per raw order date, ordered by date string.
func SalesTrendDaily(rows []weather.EnrichedOrder) []TrendPoint {
	sums := make(map[string]float64)
	for _, row := range rows {
		sums[row.OrderDate] += totalSales(row)
	}
	return sortedTrend(sums)
}

// SalesTrendMonthly sums sales per calendar month (1-12, across years).
func SalesTrendMonthly(rows []weather.EnrichedOrder) ([]TrendPoint, error) {
	sums := make(map[string]float64)
	for _, row := range rows {
		ts, err := time.Parse("2006-01-02", row.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("parse order date %q: %w", row.OrderDate, err)
		}
		sums[fmt.Sprintf("%02d", int(ts.Month()))] += totalSales(row)
	}
	return sortedTrend(sums), nil
}

// SalesTrendYearly sums sales per calendar year.
func SalesTrendYearly(rows []weather.EnrichedOrder) ([]TrendPoint, error) {
	sums := make(map[string]float64)
	for _, row := range rows {
		ts, err := time.Parse("2006-01-02", row.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("parse order date %q: %w", row.OrderDate, err)
		}
		sums[fmt.Sprintf("%d", ts.Year())] += totalSales(row)
	}
	return sortedTrend(sums), nil
}

// WeatherTrend sums sales per weather condition, ordered by condition name.
func WeatherTrend(rows []weather.EnrichedOrder) []ConditionTotal {
	sums := make(map[string]float64)
	for _, row := range rows {
		sums[row.Condition] += totalSales(row)
	}

	totals := make([]ConditionTotal, 0, len(sums))
	for cond, sum := range sums {
		totals = append(totals, ConditionTotal{Condition: cond, TotalSales: sum})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Condition < totals[j].Condition })
	return totals
}

func sortedTrend(sums map[string]float64) []TrendPoint {
	points := make([]TrendPoint, 0, len(sums))
	for label, sum := range sums {
		points = append(points, TrendPoint{Label: label, TotalSales: sum})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}
