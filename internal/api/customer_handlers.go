package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
)

// Customer Handlers

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListCustomers(searchQuery(r)))
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := h.queryHandler.GetCustomer(pathID(r))
	if !ok {
		respondJSONError(w, "Customer not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCustomer
	if !decodeJSON(w, r, &cmd) {
		return
	}

	c, err := h.cmdHandler.CreateCustomer(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateCustomer
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.CustomerID = pathID(r)

	if err := h.cmdHandler.UpdateCustomer(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Customer updated")
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteCustomer(r.Context(), command.DeleteCustomer{CustomerID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Customer deleted")
}
