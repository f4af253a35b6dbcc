package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"drugstore/domain"
)

// SaleStore appends immutable sale records. There is no update path;
// deletion exists only as an administrative catalog operation.
type SaleStore struct {
	db *sqlx.DB
}

func NewSaleStore(db *sqlx.DB) *SaleStore {
	return &SaleStore{db: db}
}

// SaleDetail is the reporting view of a sale with resolved names.
type SaleDetail struct {
	ID             int64           `db:"id" json:"id"`
	CustomerName   string          `db:"customer_name" json:"customer_name"`
	MedicationName string          `db:"medication_name" json:"medication_name"`
	Quantity       int64           `db:"quantity" json:"quantity"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"total_price"`
	SaleDate       string          `db:"sale_date" json:"sale_date"`
}

const saleDetailQuery = `SELECT s.id, s.quantity, s.total_price, s.sale_date,
        COALESCE(u.username, 'Unknown Customer') AS customer_name,
        COALESCE(m.name, 'Unknown Medication') AS medication_name
    FROM sales s
    LEFT JOIN users u ON u.id = s.customer_id
    LEFT JOIN medications m ON m.id = s.medication_id`

// Create appends the sale through q, which may be nil or an open
// transaction, and fills in its assigned id.
func (s *SaleStore) Create(q sqlx.Queryer, sale *domain.Sale) error {
	if q == nil {
		q = s.db
	}
	err := q.QueryRowx(
		`INSERT INTO sales (customer_id, medication_id, quantity, total_price, sale_date) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		sale.CustomerID, sale.MedicationID, sale.Quantity, sale.TotalPrice, sale.SaleDate,
	).Scan(&sale.ID)
	if err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	return nil
}

func (s *SaleStore) All() ([]SaleDetail, error) {
	sales := []SaleDetail{}
	if err := s.db.Select(&sales, saleDetailQuery+` ORDER BY s.id`); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (s *SaleStore) ByID(id int64) (SaleDetail, error) {
	var detail SaleDetail
	err := s.db.Get(&detail, saleDetailQuery+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return SaleDetail{}, ErrSaleNotFound
	}
	if err != nil {
		return SaleDetail{}, fmt.Errorf("load sale %d: %w", id, err)
	}
	return detail, nil
}

func (s *SaleStore) ByCustomer(customerID int64) ([]SaleDetail, error) {
	sales := []SaleDetail{}
	if err := s.db.Select(&sales, saleDetailQuery+` WHERE s.customer_id = ? ORDER BY s.id`, customerID); err != nil {
		return nil, fmt.Errorf("list sales for customer %d: %w", customerID, err)
	}
	return sales, nil
}

func (s *SaleStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSaleNotFound
	}
	return nil
}
