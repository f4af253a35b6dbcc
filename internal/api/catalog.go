package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"drugstore/domain"
)

// Catalog handlers: administrative pass-through CRUD over the supplier,
// employee and customer records.

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	var req domain.Supplier
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.suppliers.Create(req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	suppliers, err := h.suppliers.All()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	supplier, err := h.suppliers.ByID(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.Supplier
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	req.ID = id
	updated, err := h.suppliers.Update(req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.suppliers.Delete(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	var req domain.Employee
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.employees.Create(req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	employees, err := h.employees.All()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	employee, err := h.employees.ByID(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, employee)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.Employee
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	req.ID = id
	updated, err := h.employees.Update(req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.employees.Delete(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	var req domain.Customer
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.customers.Create(req)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listCustomerRecords(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	customers, err := h.customers.All()
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.customers.ByID(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.customers.Delete(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
