package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drugstore/domain"
)

// MedicationStore persists the drug catalog and owns the stock count.
type MedicationStore struct {
	db *sqlx.DB
}

func NewMedicationStore(db *sqlx.DB) *MedicationStore {
	return &MedicationStore{db: db}
}

func (s *MedicationStore) Create(med domain.Medication) (domain.Medication, error) {
	var id int64
	err := s.db.QueryRowx(
		`INSERT INTO medications (name, manufacturer, price, stock_quantity, expiration_date) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		med.Name, med.Manufacturer, med.Price, med.StockQuantity, med.ExpirationDate,
	).Scan(&id)
	if err != nil {
		return domain.Medication{}, fmt.Errorf("create medication: %w", err)
	}
	med.ID = id
	return med, nil
}

// ByID loads a medication through q, which may be nil or an open
// transaction.
func (s *MedicationStore) ByID(q sqlx.Queryer, id int64) (domain.Medication, error) {
	if q == nil {
		q = s.db
	}
	var m domain.Medication
	err := sqlx.Get(q, &m, `SELECT id, name, manufacturer, price, stock_quantity, expiration_date FROM medications WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medication{}, ErrMedicationNotFound
	}
	if err != nil {
		return domain.Medication{}, fmt.Errorf("load medication %d: %w", id, err)
	}
	return m, nil
}

func (s *MedicationStore) All() ([]domain.Medication, error) {
	meds := []domain.Medication{}
	if err := s.db.Select(&meds, `SELECT id, name, manufacturer, price, stock_quantity, expiration_date FROM medications ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return meds, nil
}

// Update overwrites every mutable column of the medication row.
func (s *MedicationStore) Update(med domain.Medication) (domain.Medication, error) {
	res, err := s.db.Exec(
		`UPDATE medications SET name = ?, manufacturer = ?, price = ?, stock_quantity = ?, expiration_date = ? WHERE id = ?`,
		med.Name, med.Manufacturer, med.Price, med.StockQuantity, med.ExpirationDate, med.ID,
	)
	if err != nil {
		return domain.Medication{}, fmt.Errorf("update medication %d: %w", med.ID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.Medication{}, ErrMedicationNotFound
	}
	return med, nil
}

func (s *MedicationStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM medications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete medication %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMedicationNotFound
	}
	return nil
}

// DecrementStock reduces stock by quantity inside tx. The stock check is
// part of the UPDATE itself, so the count can never go negative no
// matter what the caller read before. Quantity must be positive; the
// SQL guard cannot catch a negative quantity, which would add stock.
func (s *MedicationStore) DecrementStock(tx *sqlx.Tx, id int64, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("decrement stock: non-positive quantity %d", quantity)
	}
	res, err := tx.Exec(
		`UPDATE medications SET stock_quantity = stock_quantity - ? WHERE id = ? AND stock_quantity >= ?`,
		quantity, id, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
