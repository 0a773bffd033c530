package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
)

// Category Handlers

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListCategories(searchQuery(r)))
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.queryHandler.GetCategory(pathID(r))
	if !ok {
		respondJSONError(w, "Category not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCategory
	if !decodeJSON(w, r, &cmd) {
		return
	}

	c, err := h.cmdHandler.CreateCategory(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateCategory
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.CategoryID = pathID(r)

	if err := h.cmdHandler.UpdateCategory(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Category updated")
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteCategory(r.Context(), command.DeleteCategory{CategoryID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Category deleted")
}
