package store

// Row types below are the fixed column projections of the enriched table. One
// row is written per enriched order, so customers and products repeat when the
// same entity appears on several orders, matching the source table exactly.

type Order struct {
	OrderID    int     `gorm:"column:order_id"`
	CustomerID int     `gorm:"column:customer_id"`
	ProductID  int     `gorm:"column:product_id"`
	Quantity   int     `gorm:"column:quantity"`
	Price      float64 `gorm:"column:price"`
	OrderDate  string  `gorm:"column:order_date"`
}

func (Order) TableName() string { return "orders" }

type Customer struct {
	CustomerID int    `gorm:"column:customer_id"`
	Name       string `gorm:"column:name"`
	UserName   string `gorm:"column:user_name"`
	Email      string `gorm:"column:email"`
}

func (Customer) TableName() string { return "customers" }

type Product struct {
	ProductID int    `gorm:"column:product_id"`
	Name      string `gorm:"column:name"`
}

func (Product) TableName() string { return "products" }

type Weather struct {
	OrderID          int     `gorm:"column:order_id"`
	Lat              float64 `gorm:"column:lat"`
	Lng              float64 `gorm:"column:lng"`
	Temp             float64 `gorm:"column:temp"`
	TempMin          float64 `gorm:"column:temp_min"`
	TempMax          float64 `gorm:"column:temp_max"`
	Pressure         float64 `gorm:"column:pressure"`
	Humidity         float64 `gorm:"column:humidity"`
	WindSpeed        float64 `gorm:"column:wind_speed"`
	WindDeg          float64 `gorm:"column:wind_deg"`
	WeatherCondition string  `gorm:"column:weather_condition"`
}

func (Weather) TableName() string { return "weather" }

type Store struct {
	StoreID int     `gorm:"column:store_id"`
	Name    string  `gorm:"column:name"`
	Lat     float64 `gorm:"column:lat"`
	Lng     float64 `gorm:"column:lng"`
}

func (Store) TableName() string { return "stores" }

type OrderStoreMapping struct {
	OrderID int `gorm:"column:order_id"`
	StoreID int `gorm:"column:store_id"`
}

func (OrderStoreMapping) TableName() string { return "order_store_mapping" }
