package handlers

import (
	"net/http"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/http/response"
)

func (h *Handlers) ListAccessCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.admin.ListCodes(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch access codes")
		return
	}
	response.WriteJSON(w, http.StatusOK, codes)
}

func (h *Handlers) CreateAccessCode(w http.ResponseWriter, r *http.Request) {
	var in domain.AccessCodeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.admin.CreateCode(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to create access code")
		return
	}
	response.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handlers) GenerateAccessCode(w http.ResponseWriter, r *http.Request) {
	var in domain.AccessCodeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.admin.GenerateCode(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err, "", "Failed to generate access code")
		return
	}
	response.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateAccessCode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Access code not found")
	if !ok {
		return
	}
	var patch domain.AccessCodePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := h.admin.UpdateCode(r.Context(), id, patch)
	if err != nil {
		response.FromError(w, r, err, "Access code not found", "Failed to update access code")
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) ToggleAccessCode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Access code not found")
	if !ok {
		return
	}
	c, err := h.admin.ToggleCode(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err, "Access code not found", "Failed to toggle access code")
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteAccessCode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Access code not found")
	if !ok {
		return
	}
	if err := h.admin.DeleteCode(r.Context(), id); err != nil {
		response.FromError(w, r, err, "Access code not found", "Failed to delete access code")
		return
	}
	writeOK(w, "Access code deleted")
}

func (h *Handlers) ListAccessLog(w http.ResponseWriter, r *http.Request) {
	logs, err := h.admin.AccessLog(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch access log")
		return
	}
	response.WriteJSON(w, http.StatusOK, logs)
}

func (h *Handlers) ClearAccessLog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.admin.ClearAccessLog(r.Context()); err != nil {
		response.FromError(w, r, err, "", "Failed to clear access log")
		return
	}
	writeOK(w, "Access log cleared")
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.admin.Stats(r.Context())
	if err != nil {
		response.FromError(w, r, err, "", "Failed to fetch stats")
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}
