package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"drugstore/internal/auth"
	"drugstore/internal/database"
	"drugstore/internal/migrations"
	"drugstore/internal/pharmacy"
	"drugstore/internal/store"
	"drugstore/internal/token"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	logger := zaptest.NewLogger(t)
	codec := token.NewCodec("api_secret", time.Hour, nil)
	users := store.NewUserStore(db)
	medications := store.NewMedicationStore(db)
	sales := store.NewSaleStore(db)

	h := New(Deps{
		Gateway:   auth.NewGateway(codec, logger),
		Auth:      pharmacy.NewAuthService(users, codec, logger),
		Users:     pharmacy.NewUserService(users, logger),
		Drugs:     pharmacy.NewDrugService(medications, logger),
		Purchase:  pharmacy.NewPurchaseService(db, users, medications, sales, logger, nil),
		Deposit:   pharmacy.NewDepositService(db, users, logger),
		Sales:     pharmacy.NewSalesService(sales, users, logger, nil),
		Suppliers: store.NewSupplierStore(db),
		Employees: store.NewEmployeeStore(db),
		Customers: store.NewCustomerStore(db),
		Logger:    logger,
	})
	return h.Router()
}

func do(t *testing.T, router http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func register(t *testing.T, router http.Handler, username, password, role string) {
	t.Helper()
	body := map[string]string{"username": username, "password": password}
	if role != "" {
		body["role"] = role
	}
	rec := do(t, router, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func login(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]string](t, rec)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestHealth(t *testing.T) {
	router := newTestHandler(t)
	rec := do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestHandler(t)

	register(t, router, "alice", "pa55word", "")

	rec := do(t, router, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice", "password": "pa55word",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	login(t, router, "alice", "pa55word")

	rec = do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decode[map[string]string](t, rec)
	assert.Empty(t, resp["token"])
}

func TestAnonymousAndRoleEnforcement(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "alice", "pa55word", "")
	register(t, router, "root", "pa55word", "ADMIN")
	customer := login(t, router, "alice", "pa55word")
	admin := login(t, router, "root", "pa55word")

	// The drug list is the public storefront read.
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/drugs", "", nil).Code)

	// Anonymous requests to protected routes reach the handler and are
	// rejected there.
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/drugs/1", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/sales", "", nil).Code)

	// A tampered token is treated as anonymous, not as an error page.
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/sales/my", customer+"x", nil).Code)

	// Customers cannot reach admin reads.
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/api/sales", customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/api/users/customers", customer, nil).Code)

	// Admins cannot purchase or deposit.
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodPost, "/api/users/buy/1", admin, map[string]int{"quantity": 1}).Code)
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodPost, "/api/users/deposit", admin, map[string]any{}).Code)

	// The declared role sets admit what they should.
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/drugs", customer, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/sales", admin, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/users/customers", admin, nil).Code)
}

func TestDepositAndPurchaseFlow(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "alice", "pa55word", "")
	register(t, router, "root", "pa55word", "ADMIN")
	customer := login(t, router, "alice", "pa55word")
	admin := login(t, router, "root", "pa55word")

	rec := do(t, router, http.MethodPost, "/api/drugs", admin, map[string]any{
		"name": "Aspirin", "manufacturer": "Bayer", "price": "30.00", "stock_quantity": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	drug := decode[map[string]any](t, rec)
	drugID := int64(drug["id"].(float64))

	// Four-digit card number is rejected with no balance change.
	rec = do(t, router, http.MethodPost, "/api/users/deposit", customer, map[string]any{
		"cardNumber": "1234", "expiryDate": "12/27", "cvc": "123", "amount": "100.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/users/deposit", customer, map[string]any{
		"cardNumber": "4242424242424242", "expiryDate": "12/27", "cvc": "123", "amount": "100.00",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	type meResponse struct {
		Balance decimal.Decimal `json:"balance"`
	}
	me := decode[meResponse](t, do(t, router, http.MethodGet, "/api/users/me", customer, nil))
	assert.True(t, me.Balance.Equal(decimal.RequireFromString("100.00")), "got %s", me.Balance)

	rec = do(t, router, http.MethodPost, "/api/users/buy/"+itoa(drugID), customer, map[string]int{"quantity": 2})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	me = decode[meResponse](t, do(t, router, http.MethodGet, "/api/users/me", customer, nil))
	assert.True(t, me.Balance.Equal(decimal.RequireFromString("40.00")), "got %s", me.Balance)

	// Over-budget purchase fails and changes nothing.
	rec = do(t, router, http.MethodPost, "/api/users/buy/"+itoa(drugID), customer, map[string]int{"quantity": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	mine := decode[[]map[string]any](t, do(t, router, http.MethodGet, "/api/sales/my", customer, nil))
	require.Len(t, mine, 1)
	assert.Equal(t, "Aspirin", mine[0]["medication_name"])

	all := decode[[]map[string]any](t, do(t, router, http.MethodGet, "/api/sales", admin, nil))
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0]["customer_name"])

	// Purchase of an unknown medication is a 404.
	rec = do(t, router, http.MethodPost, "/api/users/buy/9999", customer, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Zero quantity is a 400.
	rec = do(t, router, http.MethodPost, "/api/users/buy/"+itoa(drugID), customer, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "root", "pa55word", "ADMIN")
	register(t, router, "alice", "pa55word", "")
	admin := login(t, router, "root", "pa55word")
	customer := login(t, router, "alice", "pa55word")

	rec := do(t, router, http.MethodPost, "/api/suppliers", admin, map[string]string{
		"name": "MedSupply", "phone": "123", "email": "sales@medsupply.test", "address": "Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := itoa(int64(created["id"].(float64)))

	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodGet, "/api/suppliers", customer, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/suppliers/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/suppliers/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/suppliers/"+id, admin, nil).Code)

	rec = do(t, router, http.MethodPost, "/api/employees", admin, map[string]any{
		"name": "Eve", "position": "Pharmacist", "salary": "3200.00", "hire_date": "2024-01-15",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/customers", admin, map[string]string{
		"name": "Dan", "phone": "555", "email": "dan@x.test",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUpdateEndpoints(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "root", "pa55word", "ADMIN")
	register(t, router, "alice", "pa55word", "")
	admin := login(t, router, "root", "pa55word")
	customer := login(t, router, "alice", "pa55word")

	rec := do(t, router, http.MethodPost, "/api/drugs", admin, map[string]any{
		"name": "Aspirin", "manufacturer": "Bayer", "price": "4.99", "stock_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	drugID := itoa(int64(decode[map[string]any](t, rec)["id"].(float64)))

	// Full-overwrite drug update, admin only.
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodPut, "/api/drugs/"+drugID, customer, map[string]any{
		"name": "Aspirin Forte", "price": "6.50", "stock_quantity": 4,
	}).Code)
	rec = do(t, router, http.MethodPut, "/api/drugs/"+drugID, admin, map[string]any{
		"name": "Aspirin Forte", "manufacturer": "Bayer", "price": "6.50", "stock_quantity": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Aspirin Forte", decode[map[string]any](t, rec)["name"])

	rec = do(t, router, http.MethodPut, "/api/drugs/9999", admin, map[string]any{
		"name": "Ghost", "price": "1.00", "stock_quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/suppliers", admin, map[string]string{
		"name": "MedSupply", "phone": "123", "email": "a@b.c", "address": "Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	supID := itoa(int64(decode[map[string]any](t, rec)["id"].(float64)))

	rec = do(t, router, http.MethodPut, "/api/suppliers/"+supID, admin, map[string]string{
		"name": "MedSupply Intl", "phone": "123", "email": "a@b.c", "address": "Harbor Rd",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Harbor Rd", decode[map[string]any](t, rec)["address"])

	rec = do(t, router, http.MethodPost, "/api/employees", admin, map[string]any{
		"name": "Eve", "position": "Pharmacist", "salary": "3200.00", "hire_date": "2024-01-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	empID := itoa(int64(decode[map[string]any](t, rec)["id"].(float64)))

	rec = do(t, router, http.MethodPut, "/api/employees/"+empID, admin, map[string]any{
		"name": "Eve", "position": "Head Pharmacist", "salary": "3900.00", "hire_date": "2024-01-15",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Head Pharmacist", decode[map[string]any](t, rec)["position"])
}

func TestAdminSaleCreate(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "root", "pa55word", "ADMIN")
	register(t, router, "alice", "pa55word", "")
	admin := login(t, router, "root", "pa55word")
	customer := login(t, router, "alice", "pa55word")

	rec := do(t, router, http.MethodPost, "/api/drugs", admin, map[string]any{
		"name": "Aspirin", "manufacturer": "Bayer", "price": "4.99", "stock_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	drugID := int64(decode[map[string]any](t, rec)["id"].(float64))

	body := map[string]any{"customer_id": 1, "medication_id": drugID, "quantity": 2, "total_price": "9.98"}
	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodPost, "/api/sales", customer, body).Code)

	rec = do(t, router, http.MethodPost, "/api/sales", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	all := decode[[]map[string]any](t, do(t, router, http.MethodGet, "/api/sales", admin, nil))
	require.Len(t, all, 1)
	assert.Equal(t, "Aspirin", all[0]["medication_name"])

	// The direct entry bypasses stock bookkeeping.
	rec = do(t, router, http.MethodGet, "/api/drugs/"+itoa(drugID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["available"])

	rec = do(t, router, http.MethodPost, "/api/sales", admin, map[string]any{
		"customer_id": 1, "medication_id": drugID, "quantity": 0, "total_price": "9.98",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	router := newTestHandler(t)
	register(t, router, "alice", "pa55word", "")
	customer := login(t, router, "alice", "pa55word")

	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodPut, "/api/users/me", "", map[string]string{
		"password": "newpa55",
	}).Code)

	rec := do(t, router, http.MethodPut, "/api/users/me", customer, map[string]string{"password": "newpa55"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "pa55word",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	login(t, router, "alice", "newpa55")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
