package weather

import "github.com/i474232898/sales-data-pipeline/internal/sales"

// Record is the flat weather reading attached to a single order. StoreLat and
// StoreLng echo back the synthetic query coordinate as formatted strings.
type Record struct {
	OrderID   int
	Temp      float64
	TempMin   float64
	TempMax   float64
	Pressure  float64
	Humidity  float64
	WindSpeed float64
	WindDeg   float64
	Condition string
	StoreLat  string
	StoreLng  string
}

// EnrichedOrder is the final pipeline row: a customer order joined with its
// weather record.
type EnrichedOrder struct {
	sales.CustomerOrder
	Temp      float64
	TempMin   float64
	TempMax   float64
	Pressure  float64
	Humidity  float64
	WindSpeed float64
	WindDeg   float64
	Condition string
	StoreLat  string
	StoreLng  string
}
