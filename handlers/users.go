package handlers

import (
	"net/http"

	"notes-api/service"
)

type UserHandler struct {
	Users *service.UserService
}

// List is admin-only, gated at the route.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAllUsers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
