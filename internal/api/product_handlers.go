package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
)

// Product Handlers

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListProducts(searchQuery(r)))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.queryHandler.GetProduct(pathID(r))
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if !decodeJSON(w, r, &cmd) {
		return
	}

	p, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateProduct
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.ProductID = pathID(r)

	p, err := h.cmdHandler.UpdateProduct(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// AdjustStock applies a signed stock delta, e.g. a restock or a write-off
func (h *Handlers) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var cmd command.AdjustStock
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.ProductID = pathID(r)

	p, err := h.cmdHandler.AdjustStock(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteProduct(r.Context(), command.DeleteProduct{ProductID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Product deleted")
}
