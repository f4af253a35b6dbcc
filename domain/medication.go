package domain

import "github.com/shopspring/decimal"

type Medication struct {
	ID             int64           `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Manufacturer   string          `db:"manufacturer" json:"manufacturer"`
	Price          decimal.Decimal `db:"price" json:"price"`
	StockQuantity  int64           `db:"stock_quantity" json:"stock_quantity"`
	ExpirationDate string          `db:"expiration_date" json:"expiration_date"`
}

// Available reports whether the medication can currently be sold.
// Availability is derived from stock, never stored.
func (m Medication) Available() bool {
	return m.StockQuantity > 0
}
