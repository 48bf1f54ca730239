package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/http/middleware"
	"github.com/diagnosis/founder-playbook/internal/http/response"
)

func (h *Handlers) ListSections(w http.ResponseWriter, r *http.Request) {
	secs, err := h.content.ListSections(r.Context(), true)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch sections")
		return
	}
	response.WriteJSON(w, http.StatusOK, secs)
}

func (h *Handlers) GetSection(w http.ResponseWriter, r *http.Request) {
	sec, err := h.content.GetSection(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, err, "Section not found", "Failed to fetch section")
		return
	}
	response.WriteJSON(w, http.StatusOK, sec)
}

func (h *Handlers) ListChecklists(w http.ResponseWriter, r *http.Request) {
	cs, err := h.content.ListChecklists(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch checklists")
		return
	}
	response.WriteJSON(w, http.StatusOK, cs)
}

func (h *Handlers) GetChecklist(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.GetChecklist(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.FromError(w, r, err, "Checklist not found", "Failed to fetch checklist")
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}

// Progress is keyed by the caller's session.

func (h *Handlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if sess == nil {
		response.Unauthorized(w, "Unauthorized. Please log in.")
		return
	}
	p, err := h.content.Progress(r.Context(), sess.ProgressOwner())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch progress")
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

func (h *Handlers) SaveProgress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if sess == nil {
		response.Unauthorized(w, "Unauthorized. Please log in.")
		return
	}
	var in struct {
		ChecklistID    int64    `json:"checklistId"`
		CompletedItems []string `json:"completedItems"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.content.SaveProgress(r.Context(), sess.ProgressOwner(), in.ChecklistID, in.CompletedItems)
	if err != nil {
		response.FromError(w, r, err, "Checklist not found", "Failed to save progress")
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

func (h *Handlers) ResetProgress(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if sess == nil {
		response.Unauthorized(w, "Unauthorized. Please log in.")
		return
	}
	id, ok := idParam(w, r, "checklistId", "Checklist not found")
	if !ok {
		return
	}
	if err := h.content.ResetProgress(r.Context(), sess.ProgressOwner(), id); err != nil {
		response.FromError(w, r, err, "Checklist not found", "Failed to reset progress")
		return
	}
	writeOK(w, "Progress reset")
}

// Admin

func (h *Handlers) AdminListSections(w http.ResponseWriter, r *http.Request) {
	secs, err := h.content.ListSections(r.Context(), false)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch sections")
		return
	}
	response.WriteJSON(w, http.StatusOK, secs)
}

func (h *Handlers) CreateSection(w http.ResponseWriter, r *http.Request) {
	var in domain.SectionFields
	if !decodeJSON(w, r, &in) {
		return
	}
	sec, err := h.content.CreateSection(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create section")
		return
	}
	response.WriteJSON(w, http.StatusCreated, sec)
}

func (h *Handlers) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Section not found")
	if !ok {
		return
	}
	var in domain.SectionFields
	if !decodeJSON(w, r, &in) {
		return
	}
	sec, err := h.content.UpdateSection(r.Context(), id, in)
	if err != nil {
		response.FromError(w, r, err, "Section not found", "Failed to update section")
		return
	}
	response.WriteJSON(w, http.StatusOK, sec)
}

func (h *Handlers) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Section not found")
	if !ok {
		return
	}
	if err := h.content.DeleteSection(r.Context(), id); err != nil {
		response.FromError(w, r, err, "Section not found", "Failed to delete section")
		return
	}
	writeOK(w, "Section deleted")
}

func (h *Handlers) AdminListChecklists(w http.ResponseWriter, r *http.Request) {
	h.ListChecklists(w, r)
}

func (h *Handlers) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var in domain.ChecklistFields
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.content.CreateChecklist(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create checklist")
		return
	}
	response.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Checklist not found")
	if !ok {
		return
	}
	var in domain.ChecklistFields
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.content.UpdateChecklist(r.Context(), id, in)
	if err != nil {
		response.FromError(w, r, err, "Checklist not found", "Failed to update checklist")
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteChecklist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Checklist not found")
	if !ok {
		return
	}
	if err := h.content.DeleteChecklist(r.Context(), id); err != nil {
		response.FromError(w, r, err, "Checklist not found", "Failed to delete checklist")
		return
	}
	writeOK(w, "Checklist deleted")
}
