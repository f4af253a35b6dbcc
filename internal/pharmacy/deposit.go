package pharmacy

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drugstore/internal/auth"
	"drugstore/internal/money"
	"drugstore/internal/store"
)

// CardDetails is the simulated payment card input. Validation is purely
// a format check; no real payment processing happens.
type CardDetails struct {
	Number     string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVC        string `json:"cvc"`
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVCPattern    = regexp.MustCompile(`^\d{3}$`)
)

// Valid reports whether the card fields are well-formed: 16-digit
// number, MM/YY expiry with month 01-12, 3-digit CVC.
func (c CardDetails) Valid() bool {
	return cardNumberPattern.MatchString(c.Number) &&
		cardExpiryPattern.MatchString(c.ExpiryDate) &&
		cardCVCPattern.MatchString(c.CVC)
}

// DepositService validates simulated card input and credits the
// customer's balance.
type DepositService struct {
	db     *sqlx.DB
	users  *store.UserStore
	logger *zap.Logger
}

func NewDepositService(db *sqlx.DB, users *store.UserStore, logger *zap.Logger) *DepositService {
	return &DepositService{db: db, users: users, logger: logger}
}

// Deposit credits amount to the authenticated customer after the card
// format check. The balance is untouched on any failure.
func (s *DepositService) Deposit(ctx context.Context, principal auth.Principal, card CardDetails, amount decimal.Decimal) error {
	if !card.Valid() {
		return ErrInvalidCard
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	amount = amount.Round(money.Scale)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deposit: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.ByUsername(tx, principal.Username)
	if err != nil {
		return err
	}
	if err := s.users.Credit(tx, user.ID, amount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deposit: %w", err)
	}

	s.logger.Info("deposit committed",
		zap.Int64("customer_id", user.ID),
		zap.String("amount", amount.String()),
	)
	return nil
}
