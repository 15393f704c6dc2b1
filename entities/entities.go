package entities

import (
	"time"

	"boothStore/models"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	Product                models.Product               `json:"product"`
	Quantity               int                          `json:"quantity"`
	SelectedCustomizations []models.CustomizationOption `json:"selectedCustomizations"`
	LineTotal              decimal.Decimal              `json:"lineTotal"`
}

// Cart is the persisted snapshot of a cart session.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartRequest struct {
	ProductId        string   `json:"productId"`
	CustomizationIds []string `json:"customizationIds,omitempty"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLine struct {
	ProductId      string   `json:"productId"`
	Name           string   `json:"name"`
	ImageUrl       string   `json:"imageUrl"`
	Quantity       int      `json:"quantity"`
	UnitPrice      string   `json:"unitPrice"`
	PriceType      string   `json:"priceType"`
	Customizations []string `json:"customizations"`
	LineTotal      string   `json:"lineTotal"`
}

type CartResponse struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     string     `json:"total"`
}

type Order struct {
	OrderId               string     `json:"orderId"`
	Status                string     `json:"status"`
	RequestDate           time.Time  `json:"requestDate"`
	CongressId            string     `json:"congressId"`
	RequestedBy           string     `json:"requestedBy"`
	StartDate             time.Time  `json:"startDate"`
	EndDate               time.Time  `json:"endDate"`
	CustomizationRequests string     `json:"customizationRequests,omitempty"`
	Lines                 []CartLine `json:"lines"`
	Total                 string     `json:"total"`
}

type AdminExport struct {
	Products   []models.Product  `json:"products"`
	Congresses []models.Congress `json:"congresses"`
	ExportedAt time.Time         `json:"exportedAt"`
}

// ProductForm is the admin request for a new catalog item. Features and tags
// are comma-separated.
type ProductForm struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           string          `json:"type"`
	Size           string          `json:"size"`
	Category       string          `json:"category"`
	Width          float64         `json:"width"`
	Depth          float64         `json:"depth"`
	Height         float64         `json:"height"`
	Features       string          `json:"features"`
	Tags           string          `json:"tags"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stockQuantity"`
	IsCustomizable bool            `json:"isCustomizable"`
	Status         string          `json:"status"`
}

type CongressForm struct {
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Venue     string          `json:"venue"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Notes     string          `json:"notes"`
}

type CountResponse struct {
	Count int `json:"count"`
}

// ProductCSVRow is one line of the admin CSV export.
type ProductCSVRow struct {
	Id             string `csv:"id"`
	Name           string `csv:"name"`
	Type           string `csv:"type"`
	Category       string `csv:"category"`
	Size           string `csv:"size"`
	Price          string `csv:"price"`
	PriceType      string `csv:"price_type"`
	StockQuantity  int    `csv:"stock_quantity"`
	IsCustomizable bool   `csv:"is_customizable"`
	Status         string `csv:"status"`
	Tags           string `csv:"tags"`
	Features       string `csv:"features"`
}

type BriefRequest struct {
	Answers map[string]models.BriefValue `json:"answers"`
}

type BriefProgress struct {
	Progress int `json:"progress"`
}

// BriefReceipt acknowledges a submitted brief. Answers holds the trimmed,
// non-blank answers that were accepted.
type BriefReceipt struct {
	BriefId     string              `json:"briefId"`
	SubmittedAt time.Time           `json:"submittedAt"`
	Event       string              `json:"event"`
	Progress    int                 `json:"progress"`
	Answers     map[string][]string `json:"answers"`
}
