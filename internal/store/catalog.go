package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drugstore/domain"
)

// Catalog stores are thin pass-throughs with no invariants beyond
// "record exists / does not exist".

type SupplierStore struct {
	db *sqlx.DB
}

func NewSupplierStore(db *sqlx.DB) *SupplierStore {
	return &SupplierStore{db: db}
}

func (s *SupplierStore) Create(sup domain.Supplier) (domain.Supplier, error) {
	err := s.db.QueryRowx(
		`INSERT INTO suppliers (name, phone, email, address) VALUES (?, ?, ?, ?) RETURNING id`,
		sup.Name, sup.Phone, sup.Email, sup.Address,
	).Scan(&sup.ID)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

func (s *SupplierStore) All() ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	if err := s.db.Select(&suppliers, `SELECT id, name, phone, email, address FROM suppliers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *SupplierStore) ByID(id int64) (domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.Get(&sup, `SELECT id, name, phone, email, address FROM suppliers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Supplier{}, ErrRecordNotFound
	}
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("load supplier %d: %w", id, err)
	}
	return sup, nil
}

// Update overwrites every column of the supplier row.
func (s *SupplierStore) Update(sup domain.Supplier) (domain.Supplier, error) {
	res, err := s.db.Exec(
		`UPDATE suppliers SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`,
		sup.Name, sup.Phone, sup.Email, sup.Address, sup.ID,
	)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("update supplier %d: %w", sup.ID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.Supplier{}, ErrRecordNotFound
	}
	return sup, nil
}

func (s *SupplierStore) Delete(id int64) error {
	return deleteByID(s.db, "suppliers", id)
}

type EmployeeStore struct {
	db *sqlx.DB
}

func NewEmployeeStore(db *sqlx.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func (s *EmployeeStore) Create(emp domain.Employee) (domain.Employee, error) {
	err := s.db.QueryRowx(
		`INSERT INTO employees (name, position, salary, hire_date) VALUES (?, ?, ?, ?) RETURNING id`,
		emp.Name, emp.Position, emp.Salary, emp.HireDate,
	).Scan(&emp.ID)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return emp, nil
}

func (s *EmployeeStore) All() ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if err := s.db.Select(&employees, `SELECT id, name, position, salary, hire_date FROM employees ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

func (s *EmployeeStore) ByID(id int64) (domain.Employee, error) {
	var emp domain.Employee
	err := s.db.Get(&emp, `SELECT id, name, position, salary, hire_date FROM employees WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, ErrRecordNotFound
	}
	if err != nil {
		return domain.Employee{}, fmt.Errorf("load employee %d: %w", id, err)
	}
	return emp, nil
}

// Update overwrites every column of the employee row.
func (s *EmployeeStore) Update(emp domain.Employee) (domain.Employee, error) {
	res, err := s.db.Exec(
		`UPDATE employees SET name = ?, position = ?, salary = ?, hire_date = ? WHERE id = ?`,
		emp.Name, emp.Position, emp.Salary, emp.HireDate, emp.ID,
	)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("update employee %d: %w", emp.ID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.Employee{}, ErrRecordNotFound
	}
	return emp, nil
}

func (s *EmployeeStore) Delete(id int64) error {
	return deleteByID(s.db, "employees", id)
}

type CustomerStore struct {
	db *sqlx.DB
}

func NewCustomerStore(db *sqlx.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Create(c domain.Customer) (domain.Customer, error) {
	err := s.db.QueryRowx(
		`INSERT INTO customers (name, phone, email) VALUES (?, ?, ?) RETURNING id`,
		c.Name, c.Phone, c.Email,
	).Scan(&c.ID)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *CustomerStore) All() ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if err := s.db.Select(&customers, `SELECT id, name, phone, email FROM customers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerStore) ByID(id int64) (domain.Customer, error) {
	var c domain.Customer
	err := s.db.Get(&c, `SELECT id, name, phone, email FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, ErrRecordNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("load customer %d: %w", id, err)
	}
	return c, nil
}

func (s *CustomerStore) Delete(id int64) error {
	return deleteByID(s.db, "customers", id)
}

func deleteByID(db *sqlx.DB, table string, id int64) error {
	res, err := db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
