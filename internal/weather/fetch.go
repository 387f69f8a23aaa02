package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/url"

	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
	"github.com/i474232898/sales-data-pipeline/internal/sales"
)

// ProviderConfig identifies the weather endpoint and its credentials.
type ProviderConfig struct {
	APIURL string
	APIKey string
}

// FetchForOrder queries the weather provider at the given coordinate and
// extracts a flat Record for the order.
func FetchForOrder(ctx context.Context, client *apiclient.Client, cfg ProviderConfig, coord Coordinate, orderID int) (Record, error) {
	values := url.Values{}
	values.Set("lat", coord.Lat)
	values.Set("lon", coord.Lng)
	values.Set("appid", cfg.APIKey)

	body, err := client.Get(ctx, fmt.Sprintf("%s?%s", cfg.APIURL, values.Encode()))
	if err != nil {
		return Record{}, fmt.Errorf("fetch weather for order %d: %w", orderID, err)
	}

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Pressure float64 `json:"pressure"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return Record{}, fmt.Errorf("parse weather for order %d: %w", orderID, err)
	}
	if len(payload.Weather) == 0 {
		return Record{}, fmt.Errorf("weather response for order %d has no condition entries", orderID)
	}

	return Record{
		OrderID:   orderID,
		Temp:      payload.Main.Temp,
		TempMin:   payload.Main.TempMin,
		TempMax:   payload.Main.TempMax,
		Pressure:  payload.Main.Pressure,
		Humidity:  payload.Main.Humidity,
		WindSpeed: payload.Wind.Speed,
		WindDeg:   payload.Wind.Deg,
		Condition: payload.Weather[0].Description,
		StoreLat:  coord.Lat,
		StoreLng:  coord.Lng,
	}, nil
}

// FetchForOrders issues one sequential weather fetch per order row, with a
// fresh synthetic coordinate per row. The first fetch error aborts the whole
// enrichment.
func FetchForOrders(ctx context.Context, client *apiclient.Client, cfg ProviderConfig, rng *rand.Rand, orders []sales.CustomerOrder) ([]Record, error) {
	records := make([]Record, 0, len(orders))
	for _, order := range orders {
		coord := RandomCoordinate(rng)
		rec, err := FetchForOrder(ctx, client, cfg, coord, order.OrderID)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	log.Printf("weather: fetched weather for %d orders", len(records))
	return records, nil
}

// MergeWithOrders inner-joins weather records onto customer orders on the
// configured key. Rows without a matching weather record are dropped.
func MergeWithOrders(weatherRows []Record, orders []sales.CustomerOrder, key string) ([]EnrichedOrder, error) {
	if key != "order_id" {
		return nil, fmt.Errorf("unsupported order merge key %q", key)
	}

	byOrder := make(map[int]Record, len(weatherRows))
	for _, w := range weatherRows {
		if _, ok := byOrder[w.OrderID]; !ok {
			byOrder[w.OrderID] = w
		}
	}

	var merged []EnrichedOrder
	for _, order := range orders {
		w, ok := byOrder[order.OrderID]
		if !ok {
			continue
		}
		merged = append(merged, EnrichedOrder{
			CustomerOrder: order,
			Temp:          w.Temp,
			TempMin:       w.TempMin,
			TempMax:       w.TempMax,
			Pressure:      w.Pressure,
			Humidity:      w.Humidity,
			WindSpeed:     w.WindSpeed,
			WindDeg:       w.WindDeg,
			Condition:     w.Condition,
			StoreLat:      w.StoreLat,
			StoreLng:      w.StoreLng,
		})
	}

	log.Printf("weather: merged %d of %d orders with weather data", len(merged), len(orders))
	return merged, nil
}
