package api

import (
	"net/http"

	"github.com/example/herbal-backoffice/internal/command"
	"github.com/example/herbal-backoffice/internal/domain/employee"
)

// employeeResponse copies e without its password hash
func employeeResponse(e *employee.Employee) *employee.Employee {
	out := *e
	out.PasswordHash = ""
	return &out
}

// Employee Handlers

func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListEmployees(searchQuery(r)))
}

func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := h.queryHandler.GetEmployee(pathID(r))
	if !ok {
		respondJSONError(w, "Employee not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateEmployee
	if !decodeJSON(w, r, &cmd) {
		return
	}

	e, err := h.cmdHandler.CreateEmployee(r.Context(), cmd)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, employeeResponse(e))
}

func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateEmployee
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.EmployeeID = pathID(r)

	if err := h.cmdHandler.UpdateEmployee(r.Context(), cmd); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Employee updated")
}

func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteEmployee(r.Context(), command.DeleteEmployee{EmployeeID: pathID(r)}); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "Employee deleted")
}
