package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"drugstore/domain"
)

// UserStore persists user accounts and owns their monetary balance.
// Credit and Debit are the only writers of the balance column and both
// run inside a caller-supplied transaction.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a user with a zero balance.
func (s *UserStore) Create(username, passwordHash string, role domain.Role) (domain.User, error) {
	var id int64
	err := s.db.QueryRowx(
		`INSERT INTO users (username, password, role, balance) VALUES (?, ?, ?, '0') RETURNING id`,
		username, passwordHash, string(role),
	).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return domain.User{ID: id, Username: username, Role: role, Balance: decimal.Zero}, nil
}

// queryer resolves the handle reads go through: an open transaction when
// the caller passes one, the store's database otherwise.
func (s *UserStore) queryer(q sqlx.Queryer) sqlx.Queryer {
	if q == nil {
		return s.db
	}
	return q
}

// ByID loads a user through q, which may be nil or an open transaction.
func (s *UserStore) ByID(q sqlx.Queryer, id int64) (domain.User, error) {
	var u domain.User
	err := sqlx.Get(s.queryer(q), &u, `SELECT id, username, password, role, balance, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %d: %w", id, err)
	}
	return u, nil
}

func (s *UserStore) ByUsername(q sqlx.Queryer, username string) (domain.User, error) {
	var u domain.User
	err := sqlx.Get(s.queryer(q), &u, `SELECT id, username, password, role, balance, created_at FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %q: %w", username, err)
	}
	return u, nil
}

func (s *UserStore) ByRole(role domain.Role) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.Select(&users, `SELECT id, username, password, role, balance, created_at FROM users WHERE role = ? ORDER BY id`, string(role)); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// UpdateCredentials overwrites the user's username and password hash.
func (s *UserStore) UpdateCredentials(id int64, username, passwordHash string) error {
	res, err := s.db.Exec(`UPDATE users SET username = ?, password = ? WHERE id = ?`, username, passwordHash, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Credit increases the user's balance by amount. A non-positive amount
// is refused here as well as in the service: a negative credit is a
// disguised debit and must not slip past the balance invariant.
func (s *UserStore) Credit(tx *sqlx.Tx, id int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit user %d: non-positive amount %s", id, amount)
	}
	u, err := s.ByID(tx, id)
	if err != nil {
		return err
	}
	return s.setBalance(tx, id, u.Balance, u.Balance.Add(amount))
}

// Debit decreases the user's balance by amount, failing with
// ErrInsufficientFunds when the balance would go negative. The check and
// the write happen on the same transaction, so the balance read here is
// the one the update applies to.
func (s *UserStore) Debit(tx *sqlx.Tx, id int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit user %d: non-positive amount %s", id, amount)
	}
	u, err := s.ByID(tx, id)
	if err != nil {
		return err
	}
	if u.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return s.setBalance(tx, id, u.Balance, u.Balance.Sub(amount))
}

// setBalance writes the new balance guarded on the old one. The guard is
// a compare-and-swap: if another writer slipped in between read and
// write the update matches no row and the transaction must not commit.
func (s *UserStore) setBalance(tx *sqlx.Tx, id int64, old, next decimal.Decimal) error {
	res, err := tx.Exec(`UPDATE users SET balance = ? WHERE id = ? AND balance = ?`, next, id, old)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("balance of user %d changed concurrently", id)
	}
	return nil
}
