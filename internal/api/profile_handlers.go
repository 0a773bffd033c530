package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/api/middleware"
	"github.com/example/herbal-backoffice/internal/command"
)

// Profile Handlers act on the signed-in employee

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	e, ok := h.queryHandler.GetEmployee(middleware.GetUserID(r.Context()))
	if !ok {
		respondJSONError(w, "Employee not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateProfile
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = middleware.GetUserID(r.Context())

	if err := h.cmdHandler.UpdateProfile(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Profile updated")
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var cmd command.ChangePassword
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = middleware.GetUserID(r.Context())

	if err := h.cmdHandler.ChangePassword(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Password changed successfully")
}
