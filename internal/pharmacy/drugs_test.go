package pharmacy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"drugstore/domain"
	"drugstore/internal/store"
)

func TestDrugUpdate(t *testing.T) {
	env := newTestEnv(t)
	logger := zaptest.NewLogger(t)
	drugs := NewDrugService(env.meds, logger)
	med := env.seedMedication(t, "Aspirin", "4.99", 10)

	updated, err := drugs.Update(med.ID, domain.Medication{
		Name:          "Aspirin Forte",
		Manufacturer:  "Bayer",
		Price:         decimal.RequireFromString("6.5"),
		StockQuantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, med.ID, updated.ID)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("6.50")))

	view, err := drugs.Get(med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin Forte", view.Name)
	assert.True(t, view.Available)
}

func TestDrugUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	drugs := NewDrugService(env.meds, zaptest.NewLogger(t))
	med := env.seedMedication(t, "Aspirin", "4.99", 10)

	_, err := drugs.Update(med.ID, domain.Medication{Name: "X", Price: decimal.Zero, StockQuantity: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = drugs.Update(med.ID, domain.Medication{Name: "X", Price: decimal.RequireFromString("1.00"), StockQuantity: -1})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = drugs.Update(9999, domain.Medication{Name: "X", Price: decimal.RequireFromString("1.00"), StockQuantity: 1})
	assert.ErrorIs(t, err, store.ErrMedicationNotFound)
}
