package api

import (
	"log"
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/idempotency"
)

const orderScope = "orders"

// Order Handlers

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListOrders(searchQuery(r)))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.queryHandler.GetOrder(pathID(r))
	if !ok {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// CreateOrder honours the Idempotency-Key header: a repeated key answers
// with the order created by the first request instead of placing another.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(idempotency.Header)
	if key != "" && h.replayOrder(w, r, key) {
		return
	}

	var cmd command.CreateOrder
	if !decodeJSON(w, r, &cmd) {
		return
	}

	o, err := h.cmdHandler.CreateOrder(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}

	if key != "" {
		recorded, err := h.idempotency.Remember(r.Context(), orderScope, key, o.ID)
		if err != nil {
			log.Printf("[API] Failed to remember idempotency key: %v", err)
		} else if recorded != o.ID {
			log.Printf("[API] Idempotency key raced: order %s duplicates %s", o.ID, recorded)
		}
	}

	respondJSON(w, http.StatusCreated, o)
}

// replayOrder answers a request whose key was already used
func (h *Handlers) replayOrder(w http.ResponseWriter, r *http.Request, key string) bool {
	id, ok, err := h.idempotency.Lookup(r.Context(), orderScope, key)
	if err != nil {
		log.Printf("[API] Idempotency lookup failed: %v", err)
		return false
	}
	if !ok {
		return false
	}

	if o, found := h.queryHandler.GetOrder(id); found {
		respondJSON(w, http.StatusOK, o)
		return true
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
	return true
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateOrderStatus
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.OrderID = pathID(r)

	if err := h.cmdHandler.UpdateOrderStatus(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Order status updated")
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteOrder(r.Context(), command.DeleteOrder{OrderID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Order deleted")
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.queryHandler.Invoice(pathID(r))
	if !ok {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}
