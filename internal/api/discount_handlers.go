package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
)

// Discount Handlers

func (h *Handlers) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListDiscounts(searchQuery(r)))
}

func (h *Handlers) GetDiscount(w http.ResponseWriter, r *http.Request) {
	d, ok := h.queryHandler.GetDiscount(pathID(r))
	if !ok {
		respondJSONError(w, "Discount not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// CreateDiscount answers with every discount created; a product discount
// over several products yields one per product.
func (h *Handlers) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateDiscount
	if !decodeJSON(w, r, &cmd) {
		return
	}

	created, err := h.cmdHandler.CreateDiscount(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateDiscount
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.DiscountID = pathID(r)

	if err := h.cmdHandler.UpdateDiscount(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Discount updated")
}

func (h *Handlers) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteDiscount(r.Context(), command.DeleteDiscount{DiscountID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Discount deleted")
}
