package pharmacy

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"drugstore/domain"
	"drugstore/internal/auth"
	"drugstore/internal/database"
	"drugstore/internal/migrations"
	"drugstore/internal/store"
	"drugstore/internal/token"
)

type testEnv struct {
	db       *sqlx.DB
	users    *store.UserStore
	meds     *store.MedicationStore
	sales    *store.SaleStore
	codec    *token.Codec
	auth     *AuthService
	accounts *UserService
	purchase *PurchaseService
	deposit  *DepositService
	reports  *SalesService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	logger := zaptest.NewLogger(t)
	users := store.NewUserStore(db)
	meds := store.NewMedicationStore(db)
	sales := store.NewSaleStore(db)
	codec := token.NewCodec("test_secret", time.Hour, nil)

	return &testEnv{
		db:       db,
		users:    users,
		meds:     meds,
		sales:    sales,
		codec:    codec,
		auth:     NewAuthService(users, codec, logger),
		accounts: NewUserService(users, logger),
		purchase: NewPurchaseService(db, users, meds, sales, logger, nil),
		deposit:  NewDepositService(db, users, logger),
		reports:  NewSalesService(sales, users, logger, nil),
	}
}

// seedCustomer registers a customer and credits the given starting
// balance, returning the user and a principal for it.
func (e *testEnv) seedCustomer(t *testing.T, username, balance string) (domain.User, auth.Principal) {
	t.Helper()
	user, err := e.accounts.Register(username, "pa55word", domain.RoleCustomer)
	require.NoError(t, err)

	amount := decimal.RequireFromString(balance)
	if !amount.IsZero() {
		tx, err := e.db.Beginx()
		require.NoError(t, err)
		require.NoError(t, e.users.Credit(tx, user.ID, amount))
		require.NoError(t, tx.Commit())
	}
	return user, auth.Principal{UserID: user.ID, Username: username, Role: domain.RoleCustomer}
}

func (e *testEnv) seedMedication(t *testing.T, name, price string, stock int64) domain.Medication {
	t.Helper()
	med, err := e.meds.Create(domain.Medication{
		Name:          name,
		Manufacturer:  "Acme Pharma",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return med
}

func (e *testEnv) balanceOf(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	u, err := e.users.ByID(nil, id)
	require.NoError(t, err)
	return u.Balance
}

func (e *testEnv) stockOf(t *testing.T, id int64) int64 {
	t.Helper()
	m, err := e.meds.ByID(nil, id)
	require.NoError(t, err)
	return m.StockQuantity
}
