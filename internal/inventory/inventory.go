package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("inventory record not found")
	ErrCategoryInUse = errors.New("category still has items")
)

// StockStatus is derived from quantity vs minimum level; it is never stored.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low_stock"
	StockAvailable  StockStatus = "available"
)

func (s StockStatus) Valid() bool {
	return s == StockOutOfStock || s == StockLow || s == StockAvailable
}

// ClassifyStock partitions stock health into three states. Zero quantity
// wins even when the minimum level is also zero; the low threshold is
// inclusive, so quantity equal to the minimum still counts as low.
func ClassifyStock(quantity, minLevel int) StockStatus {
	switch {
	case quantity == 0:
		return StockOutOfStock
	case quantity <= minLevel:
		return StockLow
	default:
		return StockAvailable
	}
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	ItemCount   int // loaded via JOIN on listing
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Item is a tracked inventory entry. Status is the administrative flag set
// by operators; StockStatus is recomputed from the quantities on every read.
type Item struct {
	ID            uuid.UUID
	Name          string
	CategoryID    *uuid.UUID
	CategoryName  string // loaded via JOIN
	SKU           string
	Description   string
	Price         float64
	StockQuantity int
	MinStockLevel int
	Status        string
	StockStatus   StockStatus
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Movement is an append-only ledger entry. It records that stock moved but
// does not adjust the item's stock_quantity; the two are maintained
// independently and reconciliation is left to reporting.
type Movement struct {
	ID           uuid.UUID
	ItemID       uuid.UUID
	ItemName     string // loaded via JOIN
	SKU          string
	CategoryName string
	Type         MovementType
	Quantity     int
	Reference    string
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
}

// CategorySummary is one row of the per-category stock report.
type CategorySummary struct {
	Category   string
	TotalItems int
	TotalStock int
	OutOfStock int
	LowStock   int
	TotalValue float64
}
