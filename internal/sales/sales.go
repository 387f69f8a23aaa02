package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/i474232898/sales-data-pipeline/internal/users"
)

// Record is one row of the sales input file.
type Record struct {
	OrderID    int
	CustomerID int
	ProductID  int
	Quantity   int
	Price      float64
	OrderDate  string
}

// CustomerOrder is a sales row joined with its customer's user record.
type CustomerOrder struct {
	Record
	Name     string
	UserName string
	Email    string
	Lat      float64
	Lng      float64
}

// expected header columns of the sales CSV, in any order.
var requiredColumns = []string{"customer_id", "order_id", "product_id", "quantity", "price", "order_date"}

// Load reads sales records from a CSV file, preserving file order. When
// maxRows > 0 the result is truncated to the first maxRows data rows.
func Load(path string, maxRows int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("sales: unable to read sales data file: %v", err)
		return nil, fmt.Errorf("open sales data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read sales header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("sales data file missing column %q", col)
		}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sales row: %w", err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		if maxRows > 0 && len(records) >= maxRows {
			break
		}
	}

	log.Printf("sales: loaded %d sales records from %s", len(records), path)
	return records, nil
}

func parseRow(row []string, index map[string]int) (Record, error) {
	intField := func(name string) (int, error) {
		v, err := strconv.Atoi(row[index[name]])
		if err != nil {
			return 0, fmt.Errorf("parse sales column %q value %q: %w", name, row[index[name]], err)
		}
		return v, nil
	}

	var rec Record
	var err error
	if rec.OrderID, err = intField("order_id"); err != nil {
		return Record{}, err
	}
	if rec.CustomerID, err = intField("customer_id"); err != nil {
		return Record{}, err
	}
	if rec.ProductID, err = intField("product_id"); err != nil {
		return Record{}, err
	}
	if rec.Quantity, err = intField("quantity"); err != nil {
		return Record{}, err
	}

	price, err := strconv.ParseFloat(row[index["price"]], 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse sales column \"price\" value %q: %w", row[index["price"]], err)
	}
	rec.Price = price
	rec.OrderDate = row[index["order_date"]]

	return rec, nil
}

// MergeWithUsers inner-joins sales records with user records on the configured
// key. Rows without a match on either side are dropped; the result preserves
// sales row order with sales columns first.
func MergeWithUsers(salesRows []Record, userRows []users.Record, key string) ([]CustomerOrder, error) {
	if key != "customer_id" {
		return nil, fmt.Errorf("unsupported sales merge key %q", key)
	}

	byCustomer := make(map[int]users.Record, len(userRows))
	for _, u := range userRows {
		if _, ok := byCustomer[u.CustomerID]; !ok {
			byCustomer[u.CustomerID] = u
		}
	}

	var merged []CustomerOrder
	for _, s := range salesRows {
		u, ok := byCustomer[s.CustomerID]
		if !ok {
			continue
		}
		merged = append(merged, CustomerOrder{
			Record:   s,
			Name:     u.Name,
			UserName: u.UserName,
			Email:    u.Email,
			Lat:      u.Lat,
			Lng:      u.Lng,
		})
	}

	log.Printf("sales: merged %d of %d sales rows with user data", len(merged), len(salesRows))
	return merged, nil
}
