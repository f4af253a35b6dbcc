package domain

import "github.com/shopspring/decimal"

// Sale is one committed purchase. Rows are append-only; the core never
// updates a sale after it is written.
type Sale struct {
	ID           int64           `db:"id" json:"id"`
	CustomerID   int64           `db:"customer_id" json:"customer_id"`
	MedicationID int64           `db:"medication_id" json:"medication_id"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"total_price"`
	SaleDate     string          `db:"sale_date" json:"sale_date"`
}
