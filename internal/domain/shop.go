package domain

import "time"

// Shop is a single vendor storefront. When part of a food court,
// FoodCourtID is set and carts spanning sibling shops are allowed.
type Shop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	OwnerID     string    `json:"ownerId"`
	FoodCourtID *string   `json:"foodCourtId,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type FoodCourt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Table is a QR-addressable seat. Customers scan its QRIdentifier to reach
// the menu; orders carry the table so vendors know where to deliver.
type Table struct {
	ID           string `json:"id"`
	ShopID       string `json:"shopId"`
	Number       string `json:"tableNumber"`
	QRIdentifier string `json:"qrIdentifier"`
	IsActive     bool   `json:"isActive"`
}

// Customer is a verified principal produced by the auth middleware.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Vendor is a verified principal for shop-side operations.
type Vendor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
