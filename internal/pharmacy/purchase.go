package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"drugstore/domain"
	"drugstore/internal/auth"
	"drugstore/internal/money"
	"drugstore/internal/store"
)

// PurchaseService coordinates a customer buying a medication: the
// balance debit, the stock decrement and the sale record are one atomic
// unit. Everything, validation included, runs inside a single
// transaction; the connection pool is pinned to one connection, so two
// contending purchases cannot interleave between their checks and their
// writes.
type PurchaseService struct {
	db          *sqlx.DB
	users       *store.UserStore
	medications *store.MedicationStore
	sales       *store.SaleStore
	logger      *zap.Logger
	now         func() time.Time
}

// NewPurchaseService constructs a PurchaseService. now is the server
// clock used to stamp sales; pass nil for time.Now.
func NewPurchaseService(db *sqlx.DB, users *store.UserStore, medications *store.MedicationStore, sales *store.SaleStore, logger *zap.Logger, now func() time.Time) *PurchaseService {
	if now == nil {
		now = time.Now
	}
	return &PurchaseService{db: db, users: users, medications: medications, sales: sales, logger: logger, now: now}
}

// Buy purchases quantity units of a medication for the authenticated
// customer. Failure at any step leaves balance, stock and the sales
// ledger exactly as they were; the transaction is also the cancellation
// boundary, so a caller disconnect rolls back rather than half-applies.
func (s *PurchaseService) Buy(ctx context.Context, principal auth.Principal, medicationID, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	med, err := s.medications.ByID(tx, medicationID)
	if err != nil {
		return err
	}
	if med.StockQuantity < quantity {
		return store.ErrInsufficientStock
	}

	total := money.Total(med.Price, quantity)

	user, err := s.users.ByUsername(tx, principal.Username)
	if err != nil {
		return err
	}
	if user.Balance.LessThan(total) {
		return store.ErrInsufficientFunds
	}

	// Apply. The stores re-check their own invariants on this same
	// transaction, so none of the three writes can land without the
	// other two.
	if err := s.users.Debit(tx, user.ID, total); err != nil {
		return err
	}
	if err := s.medications.DecrementStock(tx, medicationID, quantity); err != nil {
		return err
	}

	sale := &domain.Sale{
		CustomerID:   user.ID,
		MedicationID: medicationID,
		Quantity:     quantity,
		TotalPrice:   total,
		SaleDate:     s.now().UTC().Format(time.RFC3339),
	}
	if err := s.sales.Create(tx, sale); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}

	s.logger.Info("purchase committed",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("customer_id", user.ID),
		zap.Int64("medication_id", medicationID),
		zap.Int64("quantity", quantity),
		zap.String("total", total.String()),
	)
	return nil
}
