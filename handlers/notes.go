package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"notes-api/middleware"
	"notes-api/models"
	"notes-api/service"

	"github.com/go-chi/chi/v5"
)

type NoteHandler struct {
	Notes *service.NoteService
}

type noteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	}
	return p, ok
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid note id")
		return 0, false
	}
	return id, true
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var targetUserID *int64
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid userId")
			return
		}
		targetUserID = &id
	}

	notes, err := h.Notes.ListNotes(p, targetUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := h.Notes.GetNote(p, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.Notes.CreateNote(p, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/notes/%d", note.ID))
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.Notes.UpdateNote(p, id, req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Patch(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.Notes.PartialUpdateNote(p, id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.Notes.DeleteNote(p, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
