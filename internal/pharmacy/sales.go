package pharmacy

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drugstore/domain"
	"drugstore/internal/auth"
	"drugstore/internal/store"
)

// SalesService exposes the sales ledger for reporting. Most records are
// written by the purchase coordinator; Create is the administrative path
// for recording a sale directly, outside the purchase flow.
type SalesService struct {
	sales  *store.SaleStore
	users  *store.UserStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSalesService constructs a SalesService. now stamps administrative
// sale records; pass nil for time.Now.
func NewSalesService(sales *store.SaleStore, users *store.UserStore, logger *zap.Logger, now func() time.Time) *SalesService {
	if now == nil {
		now = time.Now
	}
	return &SalesService{sales: sales, users: users, logger: logger, now: now}
}

func (s *SalesService) All() ([]store.SaleDetail, error) {
	return s.sales.All()
}

func (s *SalesService) Get(id int64) (store.SaleDetail, error) {
	return s.sales.ByID(id)
}

// ForCustomer lists the authenticated customer's own purchases.
func (s *SalesService) ForCustomer(principal auth.Principal) ([]store.SaleDetail, error) {
	user, err := s.users.ByUsername(nil, principal.Username)
	if err != nil {
		return nil, err
	}
	return s.sales.ByCustomer(user.ID)
}

// Create records a sale as-is, without touching balances or stock. It is
// the bookkeeping entry for sales concluded outside the purchase flow,
// such as over-the-counter ones.
func (s *SalesService) Create(customerID, medicationID, quantity int64, totalPrice decimal.Decimal) (domain.Sale, error) {
	if quantity <= 0 {
		return domain.Sale{}, ErrInvalidQuantity
	}
	if !totalPrice.IsPositive() {
		return domain.Sale{}, ErrInvalidAmount
	}

	sale := &domain.Sale{
		CustomerID:   customerID,
		MedicationID: medicationID,
		Quantity:     quantity,
		TotalPrice:   totalPrice,
		SaleDate:     s.now().UTC().Format(time.RFC3339),
	}
	if err := s.sales.Create(nil, sale); err != nil {
		return domain.Sale{}, err
	}
	s.logger.Info("sale recorded", zap.Int64("sale_id", sale.ID), zap.Int64("customer_id", customerID))
	return *sale, nil
}

func (s *SalesService) Delete(id int64) error {
	if err := s.sales.Delete(id); err != nil {
		return err
	}
	s.logger.Info("sale deleted", zap.Int64("sale_id", id))
	return nil
}
