package catalog

import "time"

// Broker is a reviewed trading broker listed on the public site.
type Broker struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Website    string    `json:"website"`
	Rating     float64   `json:"rating"`
	Regulation string    `json:"regulation"`
	MinDeposit float64   `json:"min_deposit"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateBrokerInput holds the fields required to create a broker.
type CreateBrokerInput struct {
	Name       string  `json:"name"`
	Website    string  `json:"website"`
	Rating     float64 `json:"rating"`
	Regulation string  `json:"regulation"`
	MinDeposit float64 `json:"min_deposit"`
	Featured   bool    `json:"featured"`
}

// UpdateBrokerInput holds optional fields for a partial broker update.
type UpdateBrokerInput struct {
	Name       *string  `json:"name,omitempty"`
	Website    *string  `json:"website,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Regulation *string  `json:"regulation,omitempty"`
	MinDeposit *float64 `json:"min_deposit,omitempty"`
	Featured   *bool    `json:"featured,omitempty"`
}

// Product is a purchasable item managed from the dashboard.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductInput holds the fields required to create a product.
type CreateProductInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Active   bool    `json:"active"`
}

// UpdateProductInput holds optional fields for a partial product update.
type UpdateProductInput struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}
