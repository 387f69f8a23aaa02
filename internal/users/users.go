package users

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
)

// Record is a flattened customer row derived from the user API payload.
type Record struct {
	CustomerID int
	Name       string
	UserName   string
	Email      string
	Lat        float64
	Lng        float64
}

// apiUser mirrors the user-listing endpoint's object shape. Geo coordinates
// arrive as strings and are parsed during flattening.
type apiUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  struct {
		Geo struct {
			Lat string `json:"lat"`
			Lng string `json:"lng"`
		} `json:"geo"`
	} `json:"address"`
}

// Fetch retrieves the user list from apiURL and flattens each element into a
// Record. Output order matches the API response order.
func Fetch(ctx context.Context, client *apiclient.Client, apiURL string) ([]Record, error) {
	body, err := client.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user data: %w", err)
	}

	records, err := Parse(body)
	if err != nil {
		return nil, err
	}

	log.Printf("users: fetched %d user records", len(records))
	return records, nil
}

// Parse flattens the raw user API payload into Records.
func Parse(body json.RawMessage) ([]Record, error) {
	var raw []apiUser
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse user data: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, u := range raw {
		lat, err := strconv.ParseFloat(u.Address.Geo.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("parse user %d latitude %q: %w", u.ID, u.Address.Geo.Lat, err)
		}
		lng, err := strconv.ParseFloat(u.Address.Geo.Lng, 64)
		if err != nil {
			return nil, fmt.Errorf("parse user %d longitude %q: %w", u.ID, u.Address.Geo.Lng, err)
		}

		records = append(records, Record{
			CustomerID: u.ID,
			Name:       u.Name,
			UserName:   u.Username,
			Email:      u.Email,
			Lat:        lat,
			Lng:        lng,
		})
	}

	return records, nil
}
