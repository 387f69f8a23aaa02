package store

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/sales-data-pipeline/internal/weather"
)

// Writer persists the enriched table into the relational store.
type Writer struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path, creating it if necessary.
func Open(path string) (*Writer, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &Writer{db: db}, nil
}

// NewWriter wraps an existing gorm handle. Used by tests.
func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// DB exposes the underlying gorm handle for read-back queries.
func (w *Writer) DB() *gorm.DB {
	return w.db
}

// Persist splits the enriched table into its six column projections and writes
// each to its destination table with replace semantics: the table is dropped
// and recreated wholly on every call. Tables are written one at a time with no
// shared transaction, so a midway failure leaves earlier tables already
// replaced.
func (w *Writer) Persist(rows []weather.EnrichedOrder) error {
	orders := make([]Order, 0, len(rows))
	customers := make([]Customer, 0, len(rows))
	products := make([]Product, 0, len(rows))
	weatherRows := make([]Weather, 0, len(rows))
	stores := make([]Store, 0, len(rows))
	mappings := make([]OrderStoreMapping, 0, len(rows))

	for _, row := range rows {
		storeID := row.OrderID

		orders = append(orders, Order{
			OrderID:    row.OrderID,
			CustomerID: row.CustomerID,
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
			Price:      row.Price,
			OrderDate:  row.OrderDate,
		})
		customers = append(customers, Customer{
			CustomerID: row.CustomerID,
			Name:       row.Name,
			UserName:   row.UserName,
			Email:      row.Email,
		})
		products = append(products, Product{
			ProductID: row.ProductID,
			Name:      row.Name,
		})
		weatherRows = append(weatherRows, Weather{
			OrderID:          row.OrderID,
			Lat:              row.Lat,
			Lng:              row.Lng,
			Temp:             row.Temp,
			TempMin:          row.TempMin,
			TempMax:          row.TempMax,
			Pressure:         row.Pressure,
			Humidity:         row.Humidity,
			WindSpeed:        row.WindSpeed,
			WindDeg:          row.WindDeg,
			WeatherCondition: row.Condition,
		})
		stores = append(stores, Store{
			StoreID: storeID,
			Name:    row.Name,
			Lat:     row.Lat,
			Lng:     row.Lng,
		})
		mappings = append(mappings, OrderStoreMapping{
			OrderID: row.OrderID,
			StoreID: storeID,
		})
	}

	if err := replaceTable(w.db, &Order{}, orders); err != nil {
		return err
	}
	if err := replaceTable(w.db, &Customer{}, customers); err != nil {
		return err
	}
	if err := replaceTable(w.db, &Product{}, products); err != nil {
		return err
	}
	if err := replaceTable(w.db, &Weather{}, weatherRows); err != nil {
		return err
	}
	if err := replaceTable(w.db, &Store{}, stores); err != nil {
		return err
	}
	if err := replaceTable(w.db, &OrderStoreMapping{}, mappings); err != nil {
		return err
	}

	log.Printf("store: persisted %d enriched rows across 6 tables", len(rows))
	return nil
}

func replaceTable[T any](db *gorm.DB, model *T, rows []T) error {
	migrator := db.Migrator()

	if migrator.HasTable(model) {
		if err := migrator.DropTable(model); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	if err := migrator.CreateTable(model); err != nil {
		return fmt.Errorf("create table for %T: %w", model, err)
	}

	if len(rows) == 0 {
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert rows for %T: %w", model, err)
	}
	return nil
}
