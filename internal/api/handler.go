package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"drugstore/domain"
	"drugstore/internal/auth"
	"drugstore/internal/pharmacy"
	"drugstore/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	gateway   *auth.Gateway
	authSvc   *pharmacy.AuthService
	users     *pharmacy.UserService
	drugs     *pharmacy.DrugService
	purchase  *pharmacy.PurchaseService
	deposit   *pharmacy.DepositService
	sales     *pharmacy.SalesService
	suppliers *store.SupplierStore
	employees *store.EmployeeStore
	customers *store.CustomerStore
	logger    *zap.Logger
}

// Deps lists everything the handler needs.
type Deps struct {
	Gateway   *auth.Gateway
	Auth      *pharmacy.AuthService
	Users     *pharmacy.UserService
	Drugs     *pharmacy.DrugService
	Purchase  *pharmacy.PurchaseService
	Deposit   *pharmacy.DepositService
	Sales     *pharmacy.SalesService
	Suppliers *store.SupplierStore
	Employees *store.EmployeeStore
	Customers *store.CustomerStore
	Logger    *zap.Logger
}

// New constructs a Handler.
func New(d Deps) *Handler {
	return &Handler{
		gateway:   d.Gateway,
		authSvc:   d.Auth,
		users:     d.Users,
		drugs:     d.Drugs,
		purchase:  d.Purchase,
		deposit:   d.Deposit,
		sales:     d.Sales,
		suppliers: d.Suppliers,
		employees: d.Employees,
		customers: d.Customers,
		logger:    d.Logger,
	}
}

// Router wires up the HTTP API. The identity gateway runs on every
// route; per-handler role checks decide what an anonymous or
// under-privileged request may do.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(h.gateway.Middleware)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.login)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.register)
			r.Get("/me", h.me)
			r.Put("/me", h.updateMe)
			r.Get("/customers", h.listCustomers)
			r.Post("/deposit", h.depositMoney)
			r.Post("/buy/{medicationId}", h.buyMedication)
			r.Get("/{id}", h.getUser)
		})

		r.Route("/drugs", func(r chi.Router) {
			r.Get("/", h.listDrugs)
			r.Post("/", h.createDrug)
			r.Get("/{id}", h.getDrug)
			r.Put("/{id}", h.updateDrug)
			r.Delete("/{id}", h.deleteDrug)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.createSale)
			r.Get("/my", h.mySales)
			r.Get("/{id}", h.getSale)
			r.Delete("/{id}", h.deleteSale)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", h.createSupplier)
			r.Get("/", h.listSuppliers)
			r.Get("/{id}", h.getSupplier)
			r.Put("/{id}", h.updateSupplier)
			r.Delete("/{id}", h.deleteSupplier)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.createEmployee)
			r.Get("/", h.listEmployees)
			r.Get("/{id}", h.getEmployee)
			r.Put("/{id}", h.updateEmployee)
			r.Delete("/{id}", h.deleteEmployee)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.createCustomer)
			r.Get("/", h.listCustomerRecords)
			r.Get("/{id}", h.getCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireRole enforces the operation's declared role set. An empty set
// admits any authenticated principal.
func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, required ...domain.Role) (auth.Principal, bool) {
	principal, ok := auth.FromContext(r.Context())
	var p *auth.Principal
	if ok {
		p = &principal
	}
	if err := auth.Authorize(p, required...); err != nil {
		h.respondFailure(w, err)
		return auth.Principal{}, false
	}
	return principal, true
}

// Auth handlers

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	signed, role, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: signed, Role: role})
}

// User handlers

type registerRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.Register(req.Username, req.Password, req.Role)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "username": user.Username})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.users.Get(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireRole(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetByUsername(principal.Username)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// updateMe lets the authenticated user change their own credentials.
// Blank fields are left as they are.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireRole(w, r)
	if !ok {
		return
	}
	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.UpdateProfile(principal.Username, req.Username, req.Password); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	users, err := h.users.Customers()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type depositRequest struct {
	CardNumber string          `json:"cardNumber"`
	ExpiryDate string          `json:"expiryDate"`
	CVC        string          `json:"cvc"`
	Amount     decimal.Decimal `json:"amount"`
}

func (h *Handler) depositMoney(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireRole(w, r, domain.RoleCustomer)
	if !ok {
		return
	}
	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	card := pharmacy.CardDetails{Number: req.CardNumber, ExpiryDate: req.ExpiryDate, CVC: req.CVC}
	if err := h.deposit.Deposit(r.Context(), principal, card, req.Amount); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type buyRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *Handler) buyMedication(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireRole(w, r, domain.RoleCustomer)
	if !ok {
		return
	}
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "medicationId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	var req buyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.purchase.Buy(r.Context(), principal, medicationID, req.Quantity); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Drug handlers

// listDrugs is the public storefront read; anonymous requests are
// allowed, like login and register.
func (h *Handler) listDrugs(w http.ResponseWriter, r *http.Request) {
	drugs, err := h.drugs.All()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drugs)
}

func (h *Handler) getDrug(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	drug, err := h.drugs.Get(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drug)
}

type createDrugRequest struct {
	Name           string          `json:"name"`
	Manufacturer   string          `json:"manufacturer"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int64           `json:"stock_quantity"`
	ExpirationDate string          `json:"expiration_date"`
}

func (h *Handler) createDrug(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	var req createDrugRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.drugs.Create(domain.Medication{
		Name:           req.Name,
		Manufacturer:   req.Manufacturer,
		Price:          req.Price,
		StockQuantity:  req.StockQuantity,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateDrug(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	var req createDrugRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	updated, err := h.drugs.Update(id, domain.Medication{
		Name:           req.Name,
		Manufacturer:   req.Manufacturer,
		Price:          req.Price,
		StockQuantity:  req.StockQuantity,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteDrug(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medication id")
		return
	}
	if err := h.drugs.Delete(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sale handlers

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	sales, err := h.sales.All()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

type createSaleRequest struct {
	CustomerID   int64           `json:"customer_id"`
	MedicationID int64           `json:"medication_id"`
	Quantity     int64           `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// createSale records a sale directly in the ledger, without the balance
// and stock bookkeeping of the purchase flow.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.sales.Create(req.CustomerID, req.MedicationID, req.Quantity, req.TotalPrice)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.sales.Get(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) mySales(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireRole(w, r, domain.RoleCustomer)
	if !ok {
		return
	}
	sales, err := h.sales.ForCustomer(principal)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.sales.Delete(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Middleware and helpers

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// respondFailure maps the service error taxonomy onto HTTP statuses.
// Every expected failure has a stable, distinguishable response;
// anything unrecognized is an internal fault and gets a generic body.
func (h *Handler) respondFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, pharmacy.ErrBadCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrMedicationNotFound),
		errors.Is(err, store.ErrSaleNotFound),
		errors.Is(err, store.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pharmacy.ErrInvalidQuantity),
		errors.Is(err, pharmacy.ErrInvalidAmount),
		errors.Is(err, pharmacy.ErrInvalidCard),
		errors.Is(err, pharmacy.ErrInvalidRole):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, store.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("internal failure", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
