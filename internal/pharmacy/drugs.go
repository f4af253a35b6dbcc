package pharmacy

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drugstore/domain"
	"drugstore/internal/money"
	"drugstore/internal/store"
)

// DrugView is the catalog projection exposed to clients: availability is
// derived from stock at read time.
type DrugView struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Manufacturer   string          `json:"manufacturer"`
	Price          decimal.Decimal `json:"price"`
	ExpirationDate string          `json:"expiration_date"`
	Available      bool            `json:"available"`
}

func viewOf(m domain.Medication) DrugView {
	return DrugView{
		ID:             m.ID,
		Name:           m.Name,
		Manufacturer:   m.Manufacturer,
		Price:          m.Price,
		ExpirationDate: m.ExpirationDate,
		Available:      m.Available(),
	}
}

// DrugService manages the medication catalog.
type DrugService struct {
	medications *store.MedicationStore
	logger      *zap.Logger
}

func NewDrugService(medications *store.MedicationStore, logger *zap.Logger) *DrugService {
	return &DrugService{medications: medications, logger: logger}
}

func (s *DrugService) All() ([]DrugView, error) {
	meds, err := s.medications.All()
	if err != nil {
		return nil, err
	}
	views := make([]DrugView, len(meds))
	for i, m := range meds {
		views[i] = viewOf(m)
	}
	return views, nil
}

func (s *DrugService) Get(id int64) (DrugView, error) {
	m, err := s.medications.ByID(nil, id)
	if err != nil {
		return DrugView{}, err
	}
	return viewOf(m), nil
}

// Create adds a medication to the catalog. The price is normalized to
// the currency's minor-unit precision before it is stored.
func (s *DrugService) Create(med domain.Medication) (domain.Medication, error) {
	price, err := money.NewPrice(med.Price)
	if err != nil || price.IsZero() {
		return domain.Medication{}, ErrInvalidAmount
	}
	if med.StockQuantity < 0 {
		return domain.Medication{}, ErrInvalidQuantity
	}
	med.Price = price

	created, err := s.medications.Create(med)
	if err != nil {
		return domain.Medication{}, err
	}
	s.logger.Info("medication created", zap.Int64("medication_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update overwrites the catalog entry with med's fields, under the same
// validation as Create.
func (s *DrugService) Update(id int64, med domain.Medication) (domain.Medication, error) {
	price, err := money.NewPrice(med.Price)
	if err != nil || price.IsZero() {
		return domain.Medication{}, ErrInvalidAmount
	}
	if med.StockQuantity < 0 {
		return domain.Medication{}, ErrInvalidQuantity
	}
	med.ID = id
	med.Price = price

	updated, err := s.medications.Update(med)
	if err != nil {
		return domain.Medication{}, err
	}
	s.logger.Info("medication updated", zap.Int64("medication_id", id), zap.String("name", updated.Name))
	return updated, nil
}

func (s *DrugService) Delete(id int64) error {
	if err := s.medications.Delete(id); err != nil {
		return err
	}
	s.logger.Info("medication deleted", zap.Int64("medication_id", id))
	return nil
}
